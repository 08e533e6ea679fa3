// internal/catch/tuning.go
//
// Tunable sizes, speeds and odds for a round.
// Every value has a default; a Params value is copied into a Round at
// construction and never changes while a round runs.

package catch

const (
	DefaultStageWidth  = 640.0
	DefaultStageHeight = 480.0

	DefaultBalloonWidth  = 44.0
	DefaultBalloonHeight = 56.0
	DefaultPlayerWidth   = 44.0
	DefaultPlayerHeight  = 62.0

	DefaultKeyMove = 6.0  // px per keydown step
	DefaultTapMove = 24.0 // px per tap

	DefaultBaseFallSpeed = 80.0   // px/s, multiplied by the item's speed
	DefaultSpawnRate     = 1200.0 // ms between spawns
	DefaultMaxFrameDelta = 40.0   // ms, clamp for stalled frames
	DefaultPreferNeed    = 0.6    // odds of spawning the needed token

	DefaultAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultFallbackToken = "?"
)

// Params groups all per-round tuning.
type Params struct {
	StageWidth  float64 `toml:"stage_width"`
	StageHeight float64 `toml:"stage_height"`

	BalloonWidth  float64 `toml:"balloon_width"`
	BalloonHeight float64 `toml:"balloon_height"`
	PlayerWidth   float64 `toml:"player_width"`
	PlayerHeight  float64 `toml:"player_height"`

	KeyMove float64 `toml:"key_move"`
	TapMove float64 `toml:"tap_move"`

	BaseFallSpeed float64 `toml:"base_fall_speed"`
	SpawnRate     float64 `toml:"spawn_rate"`
	MaxFrameDelta float64 `toml:"max_frame_delta"`
	PreferNeed    float64 `toml:"prefer_need"`

	// PruneMargin is how far past the stage bottom an object may fall
	// before it is removed.
	PruneMargin float64 `toml:"prune_margin"`

	FallbackToken string `toml:"fallback_token"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		StageWidth:    DefaultStageWidth,
		StageHeight:   DefaultStageHeight,
		BalloonWidth:  DefaultBalloonWidth,
		BalloonHeight: DefaultBalloonHeight,
		PlayerWidth:   DefaultPlayerWidth,
		PlayerHeight:  DefaultPlayerHeight,
		KeyMove:       DefaultKeyMove,
		TapMove:       DefaultTapMove,
		BaseFallSpeed: DefaultBaseFallSpeed,
		SpawnRate:     DefaultSpawnRate,
		MaxFrameDelta: DefaultMaxFrameDelta,
		PreferNeed:    DefaultPreferNeed,
		FallbackToken: DefaultFallbackToken,
	}
}

// Normalize fills zero or invalid fields with defaults.
// PruneMargin may legitimately be zero and is only reset when negative.
func (p Params) Normalize() Params {
	d := DefaultParams()
	pos := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	pos(&p.StageWidth, d.StageWidth)
	pos(&p.StageHeight, d.StageHeight)
	pos(&p.BalloonWidth, d.BalloonWidth)
	pos(&p.BalloonHeight, d.BalloonHeight)
	pos(&p.PlayerWidth, d.PlayerWidth)
	pos(&p.PlayerHeight, d.PlayerHeight)
	pos(&p.KeyMove, d.KeyMove)
	pos(&p.TapMove, d.TapMove)
	pos(&p.BaseFallSpeed, d.BaseFallSpeed)
	pos(&p.SpawnRate, d.SpawnRate)
	pos(&p.MaxFrameDelta, d.MaxFrameDelta)
	if p.PreferNeed < 0 || p.PreferNeed > 1 {
		p.PreferNeed = d.PreferNeed
	}
	if p.PruneMargin < 0 {
		p.PruneMargin = 0
	}
	if p.FallbackToken == "" {
		p.FallbackToken = d.FallbackToken
	}
	return p
}
