package game

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// RunRecord 一局的持久化记录
type RunRecord struct {
	RunID           string    `yaml:"runId"`
	FinishedAt      time.Time `yaml:"finishedAt"`
	Outcome         string    `yaml:"outcome"`
	Difficulty      string    `yaml:"difficulty"`
	FinalScore      int       `yaml:"finalScore"`
	SurvivedSeconds int       `yaml:"survivedSeconds"`
	ScrapCollected  int       `yaml:"scrapCollected"`
	ScrapDelivered  int       `yaml:"scrapDelivered"`
}

// ScoreData 存档内容
type ScoreData struct {
	BestScore    int            `yaml:"bestScore"`
	BestByMode   map[string]int `yaml:"bestByDifficulty"` // 各难度最高分
	LastRun      *RunRecord     `yaml:"lastRun,omitempty"`
	TotalRuns    int            `yaml:"totalRuns"`
	Outcomes     map[string]int `yaml:"outcomes"` // 各结局次数
	TutorialSeen bool           `yaml:"tutorialSeen"`
}

func newScoreData() *ScoreData {
	return &ScoreData{
		BestByMode: make(map[string]int),
		Outcomes:   make(map[string]int),
	}
}

const (
	scoreObject   = "scores"
	scoreProperty = "records"
)

// ScoreStore 最高分与最近一局记录
//
// 与 SettingsManager 相同，gdataManager 为 nil 时只在内存中记录。
type ScoreStore struct {
	gdataManager *gdata.Manager
	data         *ScoreData
	now          func() time.Time
}

// NewScoreStore 创建并加载记录
func NewScoreStore(gdataManager *gdata.Manager) *ScoreStore {
	s := &ScoreStore{
		gdataManager: gdataManager,
		data:         newScoreData(),
		now:          time.Now,
	}
	if err := s.Load(); err != nil {
		log.Printf("[ScoreStore] Warning: Failed to load scores: %v (starting fresh)", err)
	}
	return s
}

// Load 从 gdata 读取记录
func (s *ScoreStore) Load() error {
	s.data = newScoreData()
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(scoreObject, scoreProperty) {
		return nil
	}

	raw, err := s.gdataManager.LoadObjectProp(scoreObject, scoreProperty)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}

	loaded := newScoreData()
	if err := yaml.Unmarshal(raw, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	if loaded.BestByMode == nil {
		loaded.BestByMode = make(map[string]int)
	}
	if loaded.Outcomes == nil {
		loaded.Outcomes = make(map[string]int)
	}
	s.data = loaded
	return nil
}

// Save 写回 gdata
func (s *ScoreStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(scoreObject, scoreProperty, raw); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	return nil
}

// Record 记录一局结果并立即保存
//
// 参数：
//   - rec: 本局结果，RunID 为空时自动生成
//
// 返回：
//   - bool: 是否刷新了总最高分
//   - error: 保存失败时返回错误（内存中的记录已更新）
func (s *ScoreStore) Record(rec RunRecord) (bool, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = s.now()
	}

	d := s.data
	d.TotalRuns++
	d.Outcomes[rec.Outcome]++
	d.LastRun = &rec

	if rec.FinalScore > d.BestByMode[rec.Difficulty] {
		d.BestByMode[rec.Difficulty] = rec.FinalScore
	}
	newBest := rec.FinalScore > d.BestScore
	if newBest {
		d.BestScore = rec.FinalScore
	}

	log.Printf("[ScoreStore] Run %s recorded: outcome=%s score=%d best=%d", rec.RunID, rec.Outcome, rec.FinalScore, d.BestScore)
	if err := s.Save(); err != nil {
		return newBest, err
	}
	return newBest, nil
}

// BestScore 总最高分
func (s *ScoreStore) BestScore() int {
	return s.data.BestScore
}

// BestFor 指定难度的最高分
func (s *ScoreStore) BestFor(difficulty string) int {
	return s.data.BestByMode[difficulty]
}

// LastRun 最近一局，没有时为 nil
func (s *ScoreStore) LastRun() *RunRecord {
	return s.data.LastRun
}

// TotalRuns 总局数
func (s *ScoreStore) TotalRuns() int {
	return s.data.TotalRuns
}

// OutcomeCount 某结局的次数
func (s *ScoreStore) OutcomeCount(outcome string) int {
	return s.data.Outcomes[outcome]
}

// TutorialSeen 是否已经看过教学
// 首局（未看过教学）开启教学遮罩
func (s *ScoreStore) TutorialSeen() bool {
	return s.data.TutorialSeen
}

// MarkTutorialSeen 标记教学已看过并保存
func (s *ScoreStore) MarkTutorialSeen() error {
	if s.data.TutorialSeen {
		return nil
	}
	s.data.TutorialSeen = true
	return s.Save()
}
