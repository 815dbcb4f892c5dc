package domain

// PresetConfig 是求解器目标函数的权重配置
type PresetConfig struct {
	Weights map[string]float64 `json:"weights"`
}

// ConstraintPreset 每个 org 至多一个（org_id 上有唯一约束）
type ConstraintPreset struct {
	ID     int64        `json:"id"`
	OrgID  int64        `json:"orgID"`
	Name   string       `json:"name"`
	Config PresetConfig `json:"config"`
}

// DefaultPresetConfig 在 org 没有保存过 preset 时使用
func DefaultPresetConfig() PresetConfig {
	return PresetConfig{
		Weights: map[string]float64{
			"cost":               1,
			"casualPenalty":      50,
			"consecutivePenalty": 20,
		},
	}
}
