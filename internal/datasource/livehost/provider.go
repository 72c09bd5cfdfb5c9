// Package livehost implements a snapshot provider that reports the
// local machine as a real managed server. The ticket and SLA domain
// still comes from the synthetic generator; only the telemetry side
// is live. This is the drop-in substitution point for a real backend
// client.
package livehost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

type Provider struct {
	inner datasource.SnapshotProvider
	cfg   engine.Config
}

// New wraps inner, replacing its server list and headline load with
// live readings from the local host.
func New(inner datasource.SnapshotProvider, cfg engine.Config) *Provider {
	return &Provider{inner: inner, cfg: cfg}
}

func (p *Provider) FetchSnapshot(ctx context.Context, tr datasource.TimeRange) (*datasource.Snapshot, error) {
	snap, err := p.inner.FetchSnapshot(ctx, tr)
	if err != nil {
		return nil, err
	}

	srv, err := p.collectHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect host telemetry: %w", err)
	}

	snap.Servers = []datasource.ServerStatus{*srv}
	snap.SystemLoad = math.Round(srv.CPU)
	return snap, nil
}

func (p *Provider) collectHost(ctx context.Context) (*datasource.ServerStatus, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("cpu percent: %w", err)
	}
	if len(total) == 0 {
		return nil, errors.New("cpu percent: no readings")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}

	usage, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, fmt.Errorf("disk usage: %w", err)
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}

	up := time.Duration(info.Uptime) * time.Second
	return &datasource.ServerStatus{
		ID:     info.HostID,
		Name:   info.Hostname,
		Status: serverState(engine.Classify(total[0], p.cfg.CPU)),
		CPU:    total[0],
		Memory: vm.UsedPercent,
		Disk:   usage.UsedPercent,
		Uptime: fmt.Sprintf("%d日%d時間", int(up.Hours())/24, int(up.Hours())%24),
	}, nil
}

func serverState(s engine.Status) datasource.ServerState {
	switch s {
	case engine.StatusCritical:
		return datasource.ServerOffline
	case engine.StatusWarning:
		return datasource.ServerWarning
	default:
		return datasource.ServerOnline
	}
}
