package recommender

import (
	"embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/lexipath/internal/platform/logger"
)

const weightsEnv = "LEXIPATH_WEIGHTS_YAML"

//go:embed weights.yaml
var weightsFS embed.FS

// Config carries every scoring tunable for one engine invocation. Immutable
// once built; the engine never mutates it.
type Config struct {
	MasteryThreshold        float64 `yaml:"mastery_threshold" json:"mastery_threshold"`
	PrereqThreshold         float64 `yaml:"prereq_threshold" json:"prereq_threshold"`
	RemedialThreshold       float64 `yaml:"remedial_threshold" json:"remedial_threshold"`
	ChallengeWeight         float64 `yaml:"challenge_weight" json:"challenge_weight"`
	PrereqWeight            float64 `yaml:"prereq_weight" json:"prereq_weight"`
	TargetDiscreteLevel     int     `yaml:"target_discrete_level" json:"target_discrete_level"`
	MatchBonus              float64 `yaml:"match_bonus" json:"match_bonus"`
	TierPenalty             float64 `yaml:"tier_penalty" json:"tier_penalty"`
	LapsePenaltyCoefficient float64 `yaml:"lapse_penalty_coefficient" json:"lapse_penalty_coefficient"`
	MaxIntervalForNorm      float64 `yaml:"max_interval_for_norm" json:"max_interval_for_norm"`
	EaseScale               float64 `yaml:"ease_scale" json:"ease_scale"`
	TopN                    int     `yaml:"top_n" json:"top_n"`
	Slider                  float64 `yaml:"slider" json:"slider"`
	AutoDetectLanguage      bool    `yaml:"auto_detect_language" json:"auto_detect_language"`
	MentalAge               float64 `yaml:"mental_age" json:"mental_age"`
	AoABuffer               float64 `yaml:"aoa_buffer" json:"aoa_buffer"`
}

// DefaultConfig mirrors the embedded weight profile. Used directly when the
// profile cannot be read, and by tests that need a known baseline.
func DefaultConfig() Config {
	return Config{
		MasteryThreshold:        0.7,
		PrereqThreshold:         0.6,
		RemedialThreshold:       0.45,
		ChallengeWeight:         0.6,
		PrereqWeight:            0.4,
		TargetDiscreteLevel:     0,
		MatchBonus:              0.3,
		TierPenalty:             0.15,
		LapsePenaltyCoefficient: 0.1,
		MaxIntervalForNorm:      120,
		EaseScale:               3500,
		TopN:                    10,
		Slider:                  0.5,
		AutoDetectLanguage:      true,
		MentalAge:               0,
		AoABuffer:               2.0,
	}
}

// yamlWeights distinguishes unset from zero so a profile can override any
// subset of the defaults.
type yamlWeights struct {
	MasteryThreshold        *float64 `yaml:"mastery_threshold"`
	PrereqThreshold         *float64 `yaml:"prereq_threshold"`
	RemedialThreshold       *float64 `yaml:"remedial_threshold"`
	ChallengeWeight         *float64 `yaml:"challenge_weight"`
	PrereqWeight            *float64 `yaml:"prereq_weight"`
	TargetDiscreteLevel     *int     `yaml:"target_discrete_level"`
	MatchBonus              *float64 `yaml:"match_bonus"`
	TierPenalty             *float64 `yaml:"tier_penalty"`
	LapsePenaltyCoefficient *float64 `yaml:"lapse_penalty_coefficient"`
	MaxIntervalForNorm      *float64 `yaml:"max_interval_for_norm"`
	EaseScale               *float64 `yaml:"ease_scale"`
	TopN                    *int     `yaml:"top_n"`
	Slider                  *float64 `yaml:"slider"`
	AutoDetectLanguage      *bool    `yaml:"auto_detect_language"`
	MentalAge               *float64 `yaml:"mental_age"`
	AoABuffer               *float64 `yaml:"aoa_buffer"`
}

// LoadConfig returns the defaults overlaid with the weight profile: the file
// named by LEXIPATH_WEIGHTS_YAML when set, otherwise the embedded one. A
// missing or invalid profile degrades to defaults with a warning.
func LoadConfig(log *logger.Logger) Config {
	cfg := DefaultConfig()

	data, err := readWeights()
	if err != nil {
		log.Warn("Weight profile unreadable, using defaults", "error", err)
		return cfg
	}
	var w yamlWeights
	if err := yaml.Unmarshal(data, &w); err != nil {
		log.Warn("Weight profile invalid, using defaults", "error", err)
		return cfg
	}
	applyWeights(&cfg, w)
	return sanitize(cfg, log)
}

func readWeights() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(weightsEnv)); path != "" {
		return os.ReadFile(path)
	}
	return weightsFS.ReadFile("weights.yaml")
}

func applyWeights(cfg *Config, w yamlWeights) {
	if w.MasteryThreshold != nil {
		cfg.MasteryThreshold = *w.MasteryThreshold
	}
	if w.PrereqThreshold != nil {
		cfg.PrereqThreshold = *w.PrereqThreshold
	}
	if w.RemedialThreshold != nil {
		cfg.RemedialThreshold = *w.RemedialThreshold
	}
	if w.ChallengeWeight != nil {
		cfg.ChallengeWeight = *w.ChallengeWeight
	}
	if w.PrereqWeight != nil {
		cfg.PrereqWeight = *w.PrereqWeight
	}
	if w.TargetDiscreteLevel != nil {
		cfg.TargetDiscreteLevel = *w.TargetDiscreteLevel
	}
	if w.MatchBonus != nil {
		cfg.MatchBonus = *w.MatchBonus
	}
	if w.TierPenalty != nil {
		cfg.TierPenalty = *w.TierPenalty
	}
	if w.LapsePenaltyCoefficient != nil {
		cfg.LapsePenaltyCoefficient = *w.LapsePenaltyCoefficient
	}
	if w.MaxIntervalForNorm != nil {
		cfg.MaxIntervalForNorm = *w.MaxIntervalForNorm
	}
	if w.EaseScale != nil {
		cfg.EaseScale = *w.EaseScale
	}
	if w.TopN != nil {
		cfg.TopN = *w.TopN
	}
	if w.Slider != nil {
		cfg.Slider = *w.Slider
	}
	if w.AutoDetectLanguage != nil {
		cfg.AutoDetectLanguage = *w.AutoDetectLanguage
	}
	if w.MentalAge != nil {
		cfg.MentalAge = *w.MentalAge
	}
	if w.AoABuffer != nil {
		cfg.AoABuffer = *w.AoABuffer
	}
}

// sanitize clamps out-of-range values back to something usable instead of
// refusing to start.
func sanitize(cfg Config, log *logger.Logger) Config {
	clamp := func(name string, v *float64, lo, hi float64) {
		if *v < lo || *v > hi {
			log.Warn("Weight out of range, clamping", "weight", name, "value", *v)
			if *v < lo {
				*v = lo
			} else {
				*v = hi
			}
		}
	}
	clamp("mastery_threshold", &cfg.MasteryThreshold, 0, 1)
	clamp("prereq_threshold", &cfg.PrereqThreshold, 0, 1)
	clamp("remedial_threshold", &cfg.RemedialThreshold, 0, 1)
	clamp("slider", &cfg.Slider, 0, 1)
	if cfg.MaxIntervalForNorm <= 0 {
		log.Warn("max_interval_for_norm must be positive, using default")
		cfg.MaxIntervalForNorm = 120
	}
	if cfg.EaseScale <= 0 {
		log.Warn("ease_scale must be positive, using default")
		cfg.EaseScale = 3500
	}
	if cfg.TopN < 1 {
		log.Warn("top_n must be at least 1, using default")
		cfg.TopN = 10
	}
	return cfg
}
