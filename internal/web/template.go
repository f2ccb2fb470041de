package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/thermostat/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"temp": func(v float64, unit string) string {
		return fmt.Sprintf("%.1f°%s", v, unit)
	},
	"limit": func(v *float64, unit string) string {
		if v == nil {
			return "disabled"
		}
		return fmt.Sprintf("%.1f°%s", *v, unit)
	},
	"onOff": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Thermostat</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.waiting { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Thermostat</h1>

<h2>Temperature</h2>
<table>
<tr><th>Current</th><td>{{temp .Cycle.CurrentTemp .Cycle.TempUnitOrDash}}</td></tr>
<tr><th>Decision (smoothed)</th><td>{{temp .Cycle.Decision .Cycle.TempUnitOrDash}}</td></tr>
<tr><th>Low limit (active)</th><td>{{limit .Cycle.ActiveLow .Cycle.TempUnitOrDash}}</td></tr>
<tr><th>High limit (active)</th><td>{{limit .Cycle.ActiveHigh .Cycle.TempUnitOrDash}}</td></tr>
</table>

<h2>Relays</h2>
<table>
<tr><th>Heat</th><td class="{{if .Cycle.HeatOn}}on{{else}}off{{end}}">{{onOff .Cycle.HeatOn}}</td></tr>
<tr><th>Cool</th><td class="{{if .Cycle.CoolOn}}on{{else}}off{{end}}">{{onOff .Cycle.CoolOn}}</td></tr>
<tr><th>Cooling stage</th><td class="{{if eq (printf "%s" .Cycle.Cooling) "waiting"}}waiting{{end}}">{{.Cycle.Cooling}}</td></tr>
</table>

<h2>Readiness</h2>
<table>
<tr><th>Gate</th><td>{{if .Ready}}open{{else}}waiting{{end}}</td></tr>
<tr><th>Config installed</th><td>{{if .ConfigReady}}yes{{else}}no{{end}}</td></tr>
<tr><th>Clock synchronized</th><td>{{if .ClockSynced}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Base topic</th><td>{{.Config.BaseTopic}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Cycles</th><td>{{.Cycles}}</td></tr>
<tr><th>Errors</th><td>{{.Errors}}</td></tr>
<tr><th>Cycle period</th><td>{{.Config.CycleSecs}}s</td></tr>
<tr><th>Sensor</th><td>{{.Config.SensorID}}</td></tr>
<tr><th>NTP</th><td>{{.Config.NTPServer}}</td></tr>
<tr><th>History DB</th><td>{{.Config.DBPath}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/history.json">History</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

// templateCycle wraps the cycle result so the template can render a dash
// before the first completed cycle has set a unit.
type templateCycle struct {
	status.CycleResult
}

func (c templateCycle) TempUnitOrDash() string {
	if c.Unit == "" {
		return "-"
	}
	return c.Unit
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Cycle  templateCycle
		Uptime time.Duration
	}{
		Snapshot: snap,
		Cycle:    templateCycle{snap.Cycle},
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
