package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/budgetopt/internal/database"
	"github.com/aristath/budgetopt/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	budgetDB    *database.DB
	jobs        map[string]scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, budgetDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		budgetDB:    budgetDB,
		jobs:        make(map[string]scheduler.Job),
	}
}

// SetJobs registers job instances for manual triggering via API
func (h *SystemHandlers) SetJobs(jobs ...scheduler.Job) {
	for _, job := range jobs {
		if job != nil {
			h.jobs[job.Name()] = job
		}
	}
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status          string          `json:"status"`
	Version         string          `json:"version"`
	StartedAt       time.Time       `json:"started_at"`
	UptimeSeconds   float64         `json:"uptime_seconds"`
	GoVersion       string          `json:"go_version"`
	Goroutines      int             `json:"goroutines"`
	CPUPercent      float64         `json:"cpu_percent"`
	RAMPercent      float64         `json:"ram_percent"`
	DatabaseHealthy bool            `json:"database_healthy"`
	Database        *database.Stats `json:"database,omitempty"`
	Jobs            []string        `json:"jobs"`
}

// HandleSystemStatus returns comprehensive system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       Version,
		StartedAt:     h.startupTime.UTC(),
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Jobs:          make([]string, 0, len(h.jobs)),
	}
	for name := range h.jobs {
		response.Jobs = append(response.Jobs, name)
	}

	if h.budgetDB != nil {
		if err := h.budgetDB.HealthCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Budget database health check failed")
			response.Status = "degraded"
		} else {
			response.DatabaseHealthy = true
		}

		stats, err := h.budgetDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get database stats")
		} else {
			response.Database = stats
		}
	}

	writeJSON(w, h.log, http.StatusOK, response)
}

// HandleTriggerJob runs a maintenance job immediately
// POST /api/system/jobs/{job}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	job, ok := h.jobs[name]
	if !ok {
		writeJSON(w, h.log, http.StatusNotFound, map[string]string{"error": "unknown job: " + name})
		return
	}

	h.log.Info().Str("job", name).Msg("Manually triggering job")
	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		writeJSON(w, h.log, http.StatusInternalServerError, map[string]string{"error": "job failed"})
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]string{"job": name, "status": "completed"})
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms sample keeps the endpoint responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
