package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/heroknight/knight"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TuningSpec struct {
	Speed               float64 `yaml:"speed"`
	JumpForce           float64 `yaml:"jump_force"`
	RollForce           float64 `yaml:"roll_force"`
	NoBlood             bool    `yaml:"no_blood"`
	AttackCooldown      float64 `yaml:"attack_cooldown"`
	ComboReset          float64 `yaml:"combo_reset"`
	IdleDelay           float64 `yaml:"idle_delay"`
	GroundSensorDisable float64 `yaml:"ground_sensor_disable"`
	MaxStep             int     `yaml:"max_step"`
	TrainingMode        bool    `yaml:"training_mode"`
	Frozen              bool    `yaml:"frozen"`
}

// Tuning converts the spec, falling back to the stock numbers for anything
// left at zero.
func (s TuningSpec) Tuning() knight.Tuning {
	t := knight.DefaultTuning()
	setIfPositive(&t.Speed, s.Speed)
	setIfPositive(&t.JumpForce, s.JumpForce)
	setIfPositive(&t.RollForce, s.RollForce)
	setIfPositive(&t.AttackCooldown, s.AttackCooldown)
	setIfPositive(&t.ComboReset, s.ComboReset)
	setIfPositive(&t.IdleDelay, s.IdleDelay)
	setIfPositive(&t.GroundSensorDisable, s.GroundSensorDisable)
	t.NoBlood = s.NoBlood
	t.MaxStep = s.MaxStep
	t.TrainingMode = s.TrainingMode
	t.Frozen = s.Frozen
	return t
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

type KnightSpec struct {
	Name         string          `yaml:"name"`
	Tuning       TuningSpec      `yaml:"tuning"`
	Transform    TransformSpec   `yaml:"transform"`
	Collider     ColliderSpec    `yaml:"collider"`
	GroundSensor SizeSpec        `yaml:"ground_sensor"`
	WallSensor   SizeSpec        `yaml:"wall_sensor"`
	Sprite       SpriteSpec      `yaml:"sprite"`
	RenderLayer  RenderLayerSpec `yaml:"render_layer"`
	Animation    AnimationSpec   `yaml:"animation"`
	SlideDust    SlideDustSpec   `yaml:"slide_dust"`
}

func LoadKnightSpec() (*KnightSpec, error) {
	spec, err := LoadSpec[KnightSpec]("knight.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SlideDustSpec struct {
	Color  *YAMLColor `yaml:"color"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Frames int        `yaml:"frames"`
}

// CoinageSpec describes the coin pool and how waves are drawn from it.
type CoinageSpec struct {
	Name         string      `yaml:"name"`
	CoinsPerWave int         `yaml:"coins_per_wave"`
	CoinReward   float64     `yaml:"coin_reward"`
	Seed         uint64      `yaml:"seed"`
	Radius       float64     `yaml:"radius"`
	Color        *YAMLColor  `yaml:"color"`
	Coins        []PointSpec `yaml:"coins"`
}

func LoadCoinageSpec() (*CoinageSpec, error) {
	spec, err := LoadSpec[CoinageSpec]("coinage.yaml")
	if err != nil {
		return nil, err
	}
	if spec.CoinsPerWave < 0 {
		return nil, fmt.Errorf("prefabs: coinage.yaml: coins_per_wave must not be negative, got %d", spec.CoinsPerWave)
	}
	return &spec, nil
}

type LevelSpec struct {
	Name          string     `yaml:"name"`
	Width         float64    `yaml:"width"`
	Height        float64    `yaml:"height"`
	KillPlaneY    float64    `yaml:"kill_plane_y"`
	PlatformColor *YAMLColor `yaml:"platform_color"`
	Platforms     []RectSpec `yaml:"platforms"`
	GoalColor     *YAMLColor `yaml:"goal_color"`
	Goals         []GoalSpec `yaml:"goals"`
	Camera        CameraSpec `yaml:"camera"`
}

func LoadLevelSpec() (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec]("level.yaml")
	if err != nil {
		return nil, err
	}
	for _, g := range spec.Goals {
		if _, ok := knight.GoalReward(g.Name); !ok {
			return nil, fmt.Errorf("prefabs: level.yaml: unknown goal %q", g.Name)
		}
	}
	return &spec, nil
}

type GoalSpec struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CameraSpec struct {
	Smoothness float64 `yaml:"smoothness"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type ColliderSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type SpriteSpec struct {
	Color  *YAMLColor `yaml:"color"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
}

type AnimationSpec struct {
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
	Current string                      `yaml:"current"`
}

type AnimationDefSpec struct {
	FrameCount int        `yaml:"frame_count"`
	FPS        float64    `yaml:"fps"`
	Loop       bool       `yaml:"loop"`
	Color      *YAMLColor `yaml:"color"`
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
type YAMLColor struct {
	color.Color
}

// Or returns the colour, or fallback when the field was omitted.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
