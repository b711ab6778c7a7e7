// server/stats.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"math"
	"net/http"
	"runtime"
	"text/template"
	"time"

	"github.com/medifly/dispatch/util"

	"github.com/shirou/gopsutil/v3/cpu"
)

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	NumGC            uint32
	NumGoRoutines    int
	CPUUsage         int
}

var statsTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>dispatch status</title>
</head>
<style>
table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  border: 1px solid #dddddd;
  padding: 8px;
  text-align: left;
}
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>CPU usage: {{.CPUUsage}}%</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>
</body>
</html>
`))

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage, _ := cpu.Percent(time.Second, false)
	cpuUsage := 0
	if len(usage) > 0 {
		cpuUsage = util.Clamp(int(math.Round(usage[0])), 0, 100)
	}

	stats := serverStats{
		Uptime:           time.Since(s.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),
		CPUUsage:         cpuUsage,
	}

	statsTemplate.Execute(w, stats)
	s.lg.Infof("%s: served stats request", r.URL.String())
}
