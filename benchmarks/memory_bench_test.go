// Package benchmarks provides memory footprint and snapshot encoding benchmarks.
package benchmarks

import (
	"runtime"
	"testing"

	"github.com/comalice/reflexpong"
	"gopkg.in/yaml.v3"
)

func BenchmarkMemoryFootprint(b *testing.B) {
	numRigs := 1000
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	rigs := make([]*Rig, numRigs)
	for i := 0; i < numRigs; i++ {
		rigs[i] = newRig(b)
	}
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	bytesPerRig := (after.TotalAlloc - before.TotalAlloc) / uint64(numRigs)
	b.ReportMetric(float64(bytesPerRig)/1024, "KB/rig")
	runtime.KeepAlive(rigs)
}

func BenchmarkSnapshotMarshal(b *testing.B) {
	r := newRig(b)
	if err := r.Play(Bot{Returns: [2]bool{true, false}}, leaveIntro); err != nil {
		b.Fatal(err)
	}
	snap := r.Engine.Snapshot()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := yaml.Marshal(snap); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotUnmarshal(b *testing.B) {
	data := GenSnapshotYAML(leaveIntro)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var snap reflexpong.Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			b.Fatal(err)
		}
	}
}
