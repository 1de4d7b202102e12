package simd

import "golang.org/x/sys/cpu"

// Features reports which SIMD-relevant CPU capabilities were detected at
// process start. The scanning primitives in this package are pure Go (see
// memchrGeneric and friends), but the prefilter package's Teddy/FatTeddy
// bucket construction uses Features to size its fingerprint: wider
// instruction sets justify spending more mask bytes per bucket to reject
// false candidates, narrower ones don't.
type Features struct {
	HasSSSE3 bool
	HasAVX2  bool
}

// DetectFeatures returns the CPU capabilities detected for the current process.
func DetectFeatures() Features {
	return Features{
		HasSSSE3: cpu.X86.HasSSSE3,
		HasAVX2:  cpu.X86.HasAVX2,
	}
}
