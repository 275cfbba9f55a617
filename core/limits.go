package core

// Limits bundles the deployment-fixed configurable constants this
// subsystem enforces. A zero-value Limits is not usable; callers should
// start from DefaultLimits and override only what they need.
type Limits struct {
	MaxNameLength      int
	MaxControllers     int
	MaxSchemaFields    int
	MaxSchemaFieldSize int
	MaxSchemas         int
	MaxCodeSize        int
	MaxMemoryPages     uint32
	DefaultGasLimit    uint64
	GasCost            GasCost
	IssuerRegistryDeposit uint64
}

// DefaultLimits is the schedule the CLI starts from. Of the
// pkg/config.Config.Credentials keys, only credentials.max_controllers is
// applied over it (see cmd/cli/root.go); the other keys are loaded into the
// config but do not change these limits.
var DefaultLimits = Limits{
	MaxNameLength:         256,
	MaxControllers:         16,
	MaxSchemaFields:        20,
	MaxSchemaFieldSize:     120,
	MaxSchemas:             16,
	MaxCodeSize:            256 * 1024,
	MaxMemoryPages:         16, // 16 * 64KiB = 1MiB ceiling on projected attestation data
	DefaultGasLimit:        8_000_000,
	GasCost:                DefaultGasCost,
	IssuerRegistryDeposit:  1_000,
}
