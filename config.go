package mwgc

import "gopkg.in/yaml.v2"

// HeapConfig holds the compile-time-constant knobs spec.md describes
// (§6: "Compile-time constants: BLOCK_SIZE_BYTES"). Go has no const
// generics to carry these at the type level the way the Rust original
// does, so they're plain construction parameters instead, loadable from a
// YAML document the same way tinygo's own target files configure a build
// (its compileopts package loads per-target settings from YAML in
// exactly this fashion).
type HeapConfig struct {
	// BlockSizeBytes is the allocation granularity. Must be at least
	// freeBlockHeaderSize bytes (16 on a 64-bit build, 8 on 32-bit).
	BlockSizeBytes uintptr `yaml:"block_size_bytes"`
}

// DefaultHeapConfig returns the configuration a Heap is built with when
// none is supplied explicitly.
func DefaultHeapConfig() HeapConfig {
	return HeapConfig{BlockSizeBytes: DefaultBlockSize}
}

// LoadHeapConfig parses a YAML document into a HeapConfig, filling in
// DefaultHeapConfig's value for any field left unset.
func LoadHeapConfig(data []byte) (HeapConfig, error) {
	cfg := DefaultHeapConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HeapConfig{}, err
	}
	if cfg.BlockSizeBytes == 0 {
		cfg.BlockSizeBytes = DefaultBlockSize
	}
	return cfg, nil
}

func (cfg HeapConfig) validate() {
	if cfg.BlockSizeBytes < freeBlockHeaderSize {
		panic("mwgc: block size must be at least as large as a free-block header")
	}
}
