package systems

import (
	"github.com/gonewx/magorbit/pkg/config"
)

// Narrator 剧情输出目标（由运行状态机实现）
type Narrator interface {
	SetObjective(message string)
	PushNarrativeToast(key, message, tone string)
}

// StorySystem 章节切换与剧情节拍
//
// 章节变化时更新目标文本并推送章节开场提示；节拍按时间顺序各触发一次。
type StorySystem struct {
	chapters []config.ChapterConfig
	beats    []config.TimedMessage
	tuning   *config.TuningConfig

	chapterIndex int
	beatCursor   int
}

// NewStorySystem 创建剧情系统
// 节拍需按时间升序排列（默认配置满足）
func NewStorySystem(tuning *config.TuningConfig) *StorySystem {
	return &StorySystem{
		chapters:     tuning.Chapters,
		beats:        tuning.StoryBeats,
		tuning:       tuning,
		chapterIndex: -1,
	}
}

// Update 根据对局时间推进章节与节拍
func (s *StorySystem) Update(elapsed float64, narrator Narrator) {
	chapter, index := s.tuning.ChapterAt(elapsed)
	if index != s.chapterIndex {
		s.chapterIndex = index
		narrator.SetObjective(chapter.Label + ": " + chapter.Objective)
		narrator.PushNarrativeToast(chapter.ID+"_intro", chapter.IntroToast, "warn")
	}

	for s.beatCursor < len(s.beats) {
		beat := s.beats[s.beatCursor]
		if elapsed < beat.At {
			break
		}
		narrator.PushNarrativeToast(beat.Key, beat.Message, beat.Tone)
		s.beatCursor++
	}
}

// Chapter 当前章节（尚未更新时为第一章）
func (s *StorySystem) Chapter() config.ChapterConfig {
	if s.chapterIndex < 0 {
		return s.chapters[0]
	}
	return s.chapters[s.chapterIndex]
}

// ChapterIndex 当前章节下标
func (s *StorySystem) ChapterIndex() int {
	return max(0, s.chapterIndex)
}
