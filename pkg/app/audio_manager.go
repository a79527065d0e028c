package app

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	tones "github.com/gonewx/magorbit/internal/audio"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
)

// AudioManager 音效管理器
// 职责：
//   - 为每个音效标识预合成提示音并缓存播放器
//   - 播放时应用 SettingsManager 中的音量与开关
//
// 实现 systems.CuePlayer，可直接交给会话使用。
type AudioManager struct {
	context         *audio.Context
	settingsManager *game.SettingsManager
	soundPlayers    map[systems.Cue]*audio.Player
}

// NewAudioManager 创建音效管理器并预生成全部提示音
//
// 参数：
//   - ctx: 音频上下文，为 nil 时所有播放请求被忽略
//   - sm: 设置管理器（可为 nil，此时按默认音量播放）
func NewAudioManager(ctx *audio.Context, sm *game.SettingsManager) *AudioManager {
	am := &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[systems.Cue]*audio.Player),
	}
	if ctx == nil {
		return am
	}

	for _, cue := range systems.AllCues {
		tone, ok := tones.ToneFor(string(cue))
		if !ok {
			log.Printf("[AudioManager] Warning: no tone for cue %s", cue)
			continue
		}
		pcm := tones.PCM16Stereo(tone.Samples(ctx.SampleRate()))
		am.soundPlayers[cue] = ctx.NewPlayerFromBytes(pcm)
	}
	log.Printf("[AudioManager] Prepared %d cue players", len(am.soundPlayers))
	return am
}

// PlayCue 播放音效
// 音效关闭或音量为 0 时不播放
func (am *AudioManager) PlayCue(cue systems.Cue) {
	player := am.soundPlayers[cue]
	if player == nil {
		return
	}

	volume := am.volume()
	if volume <= 0 {
		return
	}
	player.SetVolume(volume)

	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind cue %s: %v", cue, err)
	}
	player.Play()
}

// volume 当前生效的音效音量
func (am *AudioManager) volume() float64 {
	if am.settingsManager == nil {
		return game.DefaultSettings().SoundVolume
	}
	return am.settingsManager.EffectiveVolume()
}

// PlayerCount 已准备好的音效数量
func (am *AudioManager) PlayerCount() int {
	return len(am.soundPlayers)
}
