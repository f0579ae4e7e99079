package lod

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/logger"
)

// Config tunes a Selector.
type Config struct {
	MaxDistance float32 `yaml:"max_distance"`

	// Margin is how far past a band edge, as a fraction of MaxDistance, the
	// distance must move before the tier changes.
	Margin float32 `yaml:"margin"`

	// FadeDuration is the strand/card cross-fade time in seconds. 0 snaps.
	FadeDuration float32 `yaml:"fade_duration"`
}

// DefaultConfig returns a 40 unit range with a 2% margin and a quarter
// second fade.
func DefaultConfig() Config {
	return Config{
		MaxDistance:  40,
		Margin:       0.02,
		FadeDuration: 0.25,
	}
}

// Selector tracks the current tier of one hair object.
type Selector struct {
	cfg         Config
	band        int
	initialized bool

	blend  float32 // 0 = strands only, 1 = card only
	target float32
	fade   *gween.Tween
	easeFn ease.TweenFunc
}

// NewSelector creates a selector. The first Update picks the tier without
// hysteresis or fade.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg, easeFn: ease.InOutQuad}
}

// Update moves the selector to distance and advances the fade by dt seconds.
// It returns the current tier.
func (s *Selector) Update(distance, dt float32) Tier {
	r := ratio(distance, s.cfg.MaxDistance)

	if !s.initialized {
		s.band = bandFor(r)
		s.blend = cardTarget(s.band)
		s.target = s.blend
		s.initialized = true
		return s.Tier()
	}

	prev := s.band
	for s.band < cardBand && r >= bands[s.band].maxRatio+s.cfg.Margin {
		s.band++
	}
	for s.band > 0 && r < bands[s.band-1].maxRatio-s.cfg.Margin {
		s.band--
	}
	if s.band != prev {
		logger.Named("lod").Debug("tier changed",
			zap.Int("from", prev),
			zap.Int("to", s.band),
			zap.Float32("ratio", r))
	}

	if t := cardTarget(s.band); t != s.target {
		s.target = t
		if s.cfg.FadeDuration > 0 {
			s.fade = gween.New(s.blend, t, s.cfg.FadeDuration, s.easeFn)
		} else {
			s.fade = nil
			s.blend = t
		}
	}

	if s.fade != nil {
		v, done := s.fade.Update(dt)
		s.blend = v
		if done {
			s.fade = nil
		}
	}

	return s.Tier()
}

// Tier returns the current tier.
func (s *Selector) Tier() Tier {
	return tierAt(s.band)
}

// CardBlend returns the card opacity in [0, 1]. It eases toward 1 while the
// tier uses the card fallback and toward 0 otherwise.
func (s *Selector) CardBlend() float32 {
	return s.blend
}

// Fading reports whether a cross-fade is in progress.
func (s *Selector) Fading() bool {
	return s.fade != nil
}

func cardTarget(band int) float32 {
	if tierAt(band).UseCardFallback {
		return 1
	}
	return 0
}
