package db

import "testing"

func TestPoolStatsHealthy(t *testing.T) {
	stats := &PoolStats{TotalConns: 4, IdleConns: 2, AcquiredConns: 2, MaxConns: 10, Healthy: true}
	if !stats.Healthy {
		t.Fatal("expected healthy")
	}
	if stats.IdleConns+stats.AcquiredConns != stats.TotalConns {
		t.Fatal("idle + acquired should equal total")
	}
}
