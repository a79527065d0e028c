// Package audio 为音效标识合成短促的提示音。
//
// 只生成 PCM 采样，不接触音频设备；Ebitengine 前端用 PCM16 字节创建播放器，
// 终端前端把采样包装成 beep.Streamer。
package audio

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// WaveType 振荡器波形
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Tone 一个提示音的参数
// 频率在持续时间内从 Freq 线性滑到 EndFreq（EndFreq 为 0 表示不滑音）
type Tone struct {
	Freq     float64
	EndFreq  float64
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	Wave     WaveType
	Gain     float64
}

// cueTones 各音效的合成参数，键与 systems.Cue 的取值一致
var cueTones = map[string]Tone{
	"hit":        {Freq: 660, EndFreq: 520, Duration: 60 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 30 * time.Millisecond, Wave: WaveSquare, Gain: 0.25},
	"destroy":    {Freq: 320, EndFreq: 90, Duration: 180 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 90 * time.Millisecond, Wave: WaveNoise, Gain: 0.3},
	"shoot":      {Freq: 980, EndFreq: 1400, Duration: 50 * time.Millisecond, Attack: time.Millisecond, Release: 20 * time.Millisecond, Wave: WaveSaw, Gain: 0.18},
	"damage":     {Freq: 180, EndFreq: 110, Duration: 220 * time.Millisecond, Attack: 3 * time.Millisecond, Release: 120 * time.Millisecond, Wave: WaveSquare, Gain: 0.35},
	"upgrade":    {Freq: 520, EndFreq: 1040, Duration: 260 * time.Millisecond, Attack: 10 * time.Millisecond, Release: 100 * time.Millisecond, Wave: WaveSine, Gain: 0.3},
	"overheat":   {Freq: 140, EndFreq: 0, Duration: 320 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 150 * time.Millisecond, Wave: WaveSaw, Gain: 0.3},
	"boss_spawn": {Freq: 90, EndFreq: 60, Duration: 700 * time.Millisecond, Attack: 40 * time.Millisecond, Release: 300 * time.Millisecond, Wave: WaveSquare, Gain: 0.35},
}

// ToneFor 查询音效的合成参数
func ToneFor(cue string) (Tone, bool) {
	t, ok := cueTones[cue]
	return t, ok
}

// Samples 以 sampleRate 合成单声道采样，取值在 [-1, 1]
// 噪声波形使用固定种子，同一参数总是得到相同的采样
func (t Tone) Samples(sampleRate int) []float64 {
	n := samplesFor(t.Duration, sampleRate)
	if n == 0 {
		return nil
	}
	attack := samplesFor(t.Attack, sampleRate)
	release := samplesFor(t.Release, sampleRate)
	gain := t.Gain
	if gain <= 0 {
		gain = 0.3
	}
	endFreq := t.EndFreq
	if endFreq <= 0 {
		endFreq = t.Freq
	}

	noise := rand.New(rand.NewSource(int64(t.Freq)))
	out := make([]float64, n)
	phase := 0.0
	for i := range out {
		progress := float64(i) / float64(n)
		freq := t.Freq + (endFreq-t.Freq)*progress

		var v float64
		switch t.Wave {
		case WaveSquare:
			if phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case WaveSaw:
			v = 2 * (phase - 0.5)
		case WaveNoise:
			v = noise.Float64()*2 - 1
		default:
			v = math.Sin(2 * math.Pi * phase)
		}

		out[i] = v * gain * envelope(i, n, attack, release)

		phase += freq / float64(sampleRate)
		phase -= math.Floor(phase)
	}
	return out
}

// envelope 线性起音与释音
func envelope(i, total, attack, release int) float64 {
	if attack > 0 && i < attack {
		return float64(i) / float64(attack)
	}
	if release > 0 && i >= total-release {
		return float64(total-i) / float64(release)
	}
	return 1
}

func samplesFor(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(float64(sampleRate) * d.Seconds())
}

// PCM16Stereo 把单声道采样编码为 16 位小端双声道字节流
func PCM16Stereo(samples []float64) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(math.Round(clampSample(s) * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}

func clampSample(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
