package lob

const (
	// DefaultMaxPriceLevels is the per-side cap on distinct price levels.
	DefaultMaxPriceLevels = 1024

	// DefaultMaxOrdersPerLevel is the cap on resting orders at one price.
	DefaultMaxOrdersPerLevel = 256

	// DefaultArenaCapacity is the initial slot count for a standalone arena.
	DefaultArenaCapacity = 10_000

	// DefaultManagerArenaCapacity sizes the arena shared by every book a
	// Manager owns.
	DefaultManagerArenaCapacity = 100_000

	// arenaChunkSize is the slot count of one arena growth step. Growth
	// appends whole chunks; live slots are never moved.
	arenaChunkSize = 1024
)
