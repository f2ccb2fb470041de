// Command thermostat runs a two-stage heat/cool thermostat: it samples a
// DS18B20 probe, evaluates the configured schedule, drives the relay
// outputs, and publishes telemetry over MQTT. Runtime thermostat behavior
// (limits, schedule, cooldown) arrives on the config topic; this file
// only wires the process to its environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/sweeney/thermostat/internal/clock"
	"github.com/sweeney/thermostat/internal/config"
	"github.com/sweeney/thermostat/internal/control"
	"github.com/sweeney/thermostat/internal/gpio"
	"github.com/sweeney/thermostat/internal/logger"
	"github.com/sweeney/thermostat/internal/metrics"
	"github.com/sweeney/thermostat/internal/mqtt"
	"github.com/sweeney/thermostat/internal/sensor"
	"github.com/sweeney/thermostat/internal/status"
	"github.com/sweeney/thermostat/internal/store"
	"github.com/sweeney/thermostat/internal/web"
)

// settings are the daemon's environment wiring, loaded from the config
// file with defaults for everything.
type settings struct {
	Broker    string
	ClientID  string
	BaseTopic string

	SensorID string

	RelayChip string
	PinHeat   int
	PinCool   int

	CyclePeriod   time.Duration
	SettleDelay   time.Duration
	ReadinessPoll time.Duration

	NTPServer string
	HTTPAddr  string
	DBPath    string
	LogLevel  string
}

func main() {
	configPath := flag.String("config", "configs/config.yml", "daemon config file")
	printState := flag.Bool("print-state", false, "print the effective settings and exit")
	flag.Parse()

	cfg, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
		os.Exit(1)
	}

	if *printState {
		fmt.Printf("broker:         %s\n", cfg.Broker)
		fmt.Printf("client id:      %s\n", cfg.ClientID)
		fmt.Printf("base topic:     %s\n", cfg.BaseTopic)
		fmt.Printf("sensor:         %s\n", cfg.SensorID)
		fmt.Printf("relay chip:     %s (heat %d, cool %d)\n", cfg.RelayChip, cfg.PinHeat, cfg.PinCool)
		fmt.Printf("cycle period:   %v (settle %v, readiness poll %v)\n", cfg.CyclePeriod, cfg.SettleDelay, cfg.ReadinessPoll)
		fmt.Printf("ntp server:     %s\n", cfg.NTPServer)
		fmt.Printf("http addr:      %s\n", cfg.HTTPAddr)
		fmt.Printf("db path:        %s\n", cfg.DBPath)
		fmt.Printf("log level:      %s\n", cfg.LogLevel)
		return
	}

	log := logger.Get(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Fatalw("fatal", "err", err)
	}
}

// loadSettings reads the config file at path; a missing file just means
// defaults.
func loadSettings(path string) (settings, error) {
	v := viper.New()
	v.SetDefault("mqtt.broker", "tcp://192.168.1.200:1883")
	v.SetDefault("mqtt.client_id", "thermostat")
	v.SetDefault("mqtt.base_topic", "thermostat")
	v.SetDefault("sensor.device_id", "")
	v.SetDefault("relay.chip", "gpiochip0")
	v.SetDefault("relay.pin_heat", gpio.DefaultPinHeat)
	v.SetDefault("relay.pin_cool", gpio.DefaultPinCool)
	v.SetDefault("timing.cycle_secs", 60)
	v.SetDefault("timing.settle_ms", 750)
	v.SetDefault("timing.readiness_secs", 5)
	v.SetDefault("ntp.server", "pool.ntp.org")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.path", "thermostat.db")
	v.SetDefault("log.level", logger.InfoLevel)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return settings{}, err
	}

	return settings{
		Broker:        v.GetString("mqtt.broker"),
		ClientID:      v.GetString("mqtt.client_id"),
		BaseTopic:     v.GetString("mqtt.base_topic"),
		SensorID:      v.GetString("sensor.device_id"),
		RelayChip:     v.GetString("relay.chip"),
		PinHeat:       v.GetInt("relay.pin_heat"),
		PinCool:       v.GetInt("relay.pin_cool"),
		CyclePeriod:   time.Duration(v.GetInt("timing.cycle_secs")) * time.Second,
		SettleDelay:   time.Duration(v.GetInt("timing.settle_ms")) * time.Millisecond,
		ReadinessPoll: time.Duration(v.GetInt("timing.readiness_secs")) * time.Second,
		NTPServer:     v.GetString("ntp.server"),
		HTTPAddr:      v.GetString("http.addr"),
		DBPath:        v.GetString("db.path"),
		LogLevel:      v.GetString("log.level"),
	}, nil
}

func run(cfg settings, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer st.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:    cfg.Broker,
		BaseTopic: cfg.BaseTopic,
		HTTPAddr:  cfg.HTTPAddr,
		SensorID:  cfg.SensorID,
		NTPServer: cfg.NTPServer,
		CycleSecs: int64(cfg.CyclePeriod / time.Second),
		DBPath:    cfg.DBPath,
	})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	clk := clock.New(clock.NTPSync(cfg.NTPServer), clock.DefaultInitialRetry, clock.DefaultInterval, log)
	go clk.Run(ctx)

	sampler, err := sensor.NewDS18B20(cfg.SensorID)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer sampler.Close()

	relays, err := gpio.NewRealRelays(cfg.RelayChip, cfg.PinHeat, cfg.PinCool)
	if err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	defer relays.Close()

	configs := config.NewStore()
	ingestor := &configIngestor{configs: configs, recorder: st, log: log}

	topics := mqtt.TopicsFor(cfg.BaseTopic)
	client, err := mqtt.NewRealClient(cfg.Broker, cfg.ClientID, topics, ingestor.Handle, log)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()
	ingestor.SetPublisher(client)

	srv := web.New(cfg.HTTPAddr, tracker, st, reg)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("http server", "err", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Infof("http status server listening on %s", cfg.HTTPAddr)

	loop := control.New(control.Deps{
		Sampler:   sampler,
		Clock:     clk,
		Relays:    relays,
		Publisher: client,
		Configs:   configs,
		Conn:      client,
		Recorder:  st,
		Tracker:   tracker,
		Metrics:   m,
	}, control.Options{
		CyclePeriod:   cfg.CyclePeriod,
		SettleDelay:   cfg.SettleDelay,
		ReadinessPoll: cfg.ReadinessPoll,
	}, log)

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Infof("received %v, shutting down", s)

	cancel()
	<-done

	// Relays are commanded off by relays.Close; the MQTT Close announces
	// offline before disconnecting.
	return nil
}

// configIngestor feeds raw config messages from the MQTT callback
// goroutine into the config store and reports rejections. The publisher
// is set after the client connects; messages arriving before that are
// still ingested, just not reported on the error topic.
type configIngestor struct {
	configs  *config.Store
	recorder *store.Store
	log      *logger.Logger

	mu  sync.Mutex
	pub mqtt.Publisher
}

func (ci *configIngestor) SetPublisher(p mqtt.Publisher) {
	ci.mu.Lock()
	ci.pub = p
	ci.mu.Unlock()
}

func (ci *configIngestor) Handle(payload []byte) {
	cfg, err := ci.configs.Ingest(payload)
	if err != nil {
		msg := fmt.Sprintf("Problem with config: %v", err)
		ci.log.Warnf("%s", msg)
		if err := ci.recorder.AppendEvent(control.EventConfigRejected, msg); err != nil {
			ci.log.Warnf("record config rejection: %v", err)
		}
		ci.mu.Lock()
		pub := ci.pub
		ci.mu.Unlock()
		if pub != nil {
			if err := pub.PublishError(msg); err != nil {
				ci.log.Warnf("publish config rejection: %v", err)
			}
		}
		return
	}
	ci.log.Infow("config installed",
		"start", cfg.StartTime.Format(time.RFC3339),
		"low", limitField(cfg.LowLimit),
		"high", limitField(cfg.HighLimit),
		"minOffMins", cfg.MinimumOffMins,
		"unit", cfg.Unit(),
		"offsets", len(cfg.Offsets))
}

func limitField(v *float64) any {
	if v == nil {
		return "disabled"
	}
	return *v
}
