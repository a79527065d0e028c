package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultTuning 验证内嵌默认配置的关键数值
func TestDefaultTuning(t *testing.T) {
	cfg, err := DefaultTuning()
	if err != nil {
		t.Fatalf("DefaultTuning failed: %v", err)
	}

	if cfg.DefaultDifficulty != DifficultyArcade {
		t.Errorf("defaultDifficulty: expected arcade, got %s", cfg.DefaultDifficulty)
	}
	if len(cfg.Lanes) != LaneCount {
		t.Errorf("lanes: expected %d, got %d", LaneCount, len(cfg.Lanes))
	}
	if cfg.Magnet.HeatRate != 36 || cfg.Magnet.CoolRate != 26 || cfg.Magnet.LockDuration != 2 {
		t.Errorf("magnet rates: got heat=%v cool=%v lock=%v", cfg.Magnet.HeatRate, cfg.Magnet.CoolRate, cfg.Magnet.LockDuration)
	}
	if cfg.Runtime.RunDurationSeconds != 360 || cfg.Runtime.Integrity != 3 {
		t.Errorf("runtime: got duration=%v integrity=%d", cfg.Runtime.RunDurationSeconds, cfg.Runtime.Integrity)
	}
	if cfg.Toasts.MinGapMs != 1200 || cfg.Toasts.DurationMs != 2200 {
		t.Errorf("toasts: got minGap=%v duration=%v", cfg.Toasts.MinGapMs, cfg.Toasts.DurationMs)
	}

	caps := map[string]int{DifficultyCasual: 16, DifficultyArcade: 21, DifficultyInsane: 26}
	for name, want := range caps {
		if got := cfg.Difficulties[name].BasicCap; got != want {
			t.Errorf("%s basicCap: expected %d, got %d", name, want, got)
		}
	}

	for _, ch := range cfg.Chapters {
		if len(cfg.WavePatterns[ch.ID]) != 4 {
			t.Errorf("chapter %s: expected 4 wave patterns, got %d", ch.ID, len(cfg.WavePatterns[ch.ID]))
		}
	}
}

// TestToastPriorityFor 测试提示优先级查询
func TestToastPriorityFor(t *testing.T) {
	cfg := MustDefaultTuning()

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"倒计时告警", "end_critical", 600},
		{"受伤", "damage", 500},
		{"阶段提示", "phase_two", 400},
		{"连击增长", "combo_gain", 100},
		{"连击重置", "combo_reset", 90},
		{"未登记键使用默认值", "radio_01", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Toasts.PriorityFor(tt.key); got != tt.want {
				t.Errorf("PriorityFor(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

// TestProfileFallback 测试难度查询回落
func TestProfileFallback(t *testing.T) {
	cfg := MustDefaultTuning()

	tests := []struct {
		name     string
		input    string
		wantName string
		wantHP   int
	}{
		{"休闲", "casual", DifficultyCasual, 4},
		{"大小写不敏感", " INSANE ", DifficultyInsane, 3},
		{"未知难度回落到街机", "nightmare", DifficultyArcade, 3},
		{"空字符串", "", DifficultyArcade, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, profile := cfg.Profile(tt.input)
			if name != tt.wantName {
				t.Errorf("Profile(%q) name = %s, want %s", tt.input, name, tt.wantName)
			}
			if profile.PlayerHP != tt.wantHP {
				t.Errorf("Profile(%q) playerHp = %d, want %d", tt.input, profile.PlayerHP, tt.wantHP)
			}
		})
	}
}

func TestResolveDifficulty(t *testing.T) {
	cfg := MustDefaultTuning()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"空名称沿用设置", "", "", false},
		{"忽略大小写", " Insane ", DifficultyInsane, false},
		{"未知难度报错", "nightmare", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.ResolveDifficulty(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDifficulty(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDifficulty(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestChapterAt 测试章节边界
func TestChapterAt(t *testing.T) {
	cfg := MustDefaultTuning()

	tests := []struct {
		elapsed float64
		wantID  string
		wantIdx int
	}{
		{0, "chapter_1", 0},
		{57.9, "chapter_1", 0},
		{58, "chapter_2", 1},
		{128, "chapter_3", 2},
		{5000, "chapter_3", 2},
	}

	for _, tt := range tests {
		ch, idx := cfg.ChapterAt(tt.elapsed)
		if ch.ID != tt.wantID || idx != tt.wantIdx {
			t.Errorf("ChapterAt(%v) = %s/%d, want %s/%d", tt.elapsed, ch.ID, idx, tt.wantID, tt.wantIdx)
		}
	}
}

func TestLoadTuning(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("空路径返回默认配置", func(t *testing.T) {
		cfg, err := LoadTuning("")
		if err != nil {
			t.Fatalf("LoadTuning failed: %v", err)
		}
		if cfg.Player.MaxSpeed != 220 {
			t.Errorf("player maxSpeed: expected 220, got %v", cfg.Player.MaxSpeed)
		}
	})

	t.Run("覆盖部分字段", func(t *testing.T) {
		content := `
defaultDifficulty: insane
magnet:
  heatRate: 40
runtime:
  runDurationSeconds: 120
`
		path := filepath.Join(tempDir, "override.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		cfg, err := LoadTuning(path)
		if err != nil {
			t.Fatalf("LoadTuning failed: %v", err)
		}
		if cfg.DefaultDifficulty != DifficultyInsane {
			t.Errorf("defaultDifficulty: expected insane, got %s", cfg.DefaultDifficulty)
		}
		if cfg.Magnet.HeatRate != 40 {
			t.Errorf("heatRate: expected 40, got %v", cfg.Magnet.HeatRate)
		}
		// 未覆盖的字段保留默认值
		if cfg.Magnet.CoolRate != 26 {
			t.Errorf("coolRate: expected default 26, got %v", cfg.Magnet.CoolRate)
		}
		if cfg.Runtime.RunDurationSeconds != 120 {
			t.Errorf("runDurationSeconds: expected 120, got %v", cfg.Runtime.RunDurationSeconds)
		}
		if cfg.Runtime.Integrity != 3 {
			t.Errorf("integrity: expected default 3, got %d", cfg.Runtime.Integrity)
		}
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadTuning(filepath.Join(tempDir, "missing.yaml"))
		if err == nil {
			t.Error("Expected error for missing file, got nil")
		}
	})

	t.Run("YAML 格式错误", func(t *testing.T) {
		path := filepath.Join(tempDir, "broken.yaml")
		if err := os.WriteFile(path, []byte("magnet: [not, a, map"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := LoadTuning(path); err == nil {
			t.Error("Expected parse error, got nil")
		}
	})
}

// TestValidateTuning 测试校验规则
func TestValidateTuning(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *TuningConfig)
		wantErr string
	}{
		{
			name:    "通道数量错误",
			mutate:  func(cfg *TuningConfig) { cfg.Lanes = cfg.Lanes[:7] },
			wantErr: "lanes",
		},
		{
			name: "波次引用未知角色",
			mutate: func(cfg *TuningConfig) {
				cfg.WavePatterns["chapter_1"] = []WavePattern{{Lanes: []int{0}, Roles: []string{"ghost"}}}
			},
			wantErr: "unknown role",
		},
		{
			name: "波次通道越界",
			mutate: func(cfg *TuningConfig) {
				cfg.WavePatterns["chapter_2"] = []WavePattern{{Lanes: []int{9}, Roles: []string{RoleChaser}}}
			},
			wantErr: "out of range",
		},
		{
			name:    "缺少难度档位",
			mutate:  func(cfg *TuningConfig) { delete(cfg.Difficulties, DifficultyCasual) },
			wantErr: "difficulty casual",
		},
		{
			name:    "升温速率非正",
			mutate:  func(cfg *TuningConfig) { cfg.Magnet.HeatRate = 0 },
			wantErr: "magnet",
		},
		{
			name:    "连击上限小于基准",
			mutate:  func(cfg *TuningConfig) { cfg.Runtime.ComboMax = 0.5 },
			wantErr: "combo",
		},
		{
			name:    "未知升级类型",
			mutate:  func(cfg *TuningConfig) { cfg.Upgrades[0].Type = "laser" },
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MustDefaultTuning()
			tt.mutate(cfg)
			err := validateTuning(cfg)
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
