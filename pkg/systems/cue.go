package systems

// Cue 音效提示标识（封闭集合），由表现层决定如何播放
type Cue string

const (
	CueHit       Cue = "hit"
	CueDestroy   Cue = "destroy"
	CueShoot     Cue = "shoot"
	CueDamage    Cue = "damage"
	CueUpgrade   Cue = "upgrade"
	CueOverheat  Cue = "overheat"
	CueBossSpawn Cue = "boss_spawn"
)

// AllCues 全部音效标识，供表现层预生成音频
var AllCues = []Cue{CueHit, CueDestroy, CueShoot, CueDamage, CueUpgrade, CueOverheat, CueBossSpawn}

// CuePlayer 音效播放能力（可选）
type CuePlayer interface {
	PlayCue(cue Cue)
}

// NopCuePlayer 不播放任何声音
type NopCuePlayer struct{}

// PlayCue 实现 CuePlayer
func (NopCuePlayer) PlayCue(Cue) {}

// CueRecorder 记录播放过的音效（无声前端与测试使用）
type CueRecorder struct {
	Played []Cue
}

// PlayCue 实现 CuePlayer
func (r *CueRecorder) PlayCue(cue Cue) {
	r.Played = append(r.Played, cue)
}

// Count 统计某个音效播放次数
func (r *CueRecorder) Count(cue Cue) int {
	n := 0
	for _, c := range r.Played {
		if c == cue {
			n++
		}
	}
	return n
}
