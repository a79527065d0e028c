package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	tones "github.com/gonewx/magorbit/internal/audio"
	"github.com/gonewx/magorbit/pkg/systems"
)

const sampleRate = beep.SampleRate(44100)

// beepCues 通过扬声器播放提示音，实现 systems.CuePlayer
type beepCues struct {
	buffers map[systems.Cue]*beep.Buffer
}

// newBeepCues 初始化扬声器并预合成全部提示音
// volume 为 0 时返回的播放器不发声
func newBeepCues(volume float64) (*beepCues, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}
	c := &beepCues{buffers: cueBuffers(sampleRate, volume)}
	log.Printf("[Sound] Prepared %d cue buffers", len(c.buffers))
	return c, nil
}

// cueBuffers 为每个音效合成缓冲；没有合成参数的音效使用短促正弦音
func cueBuffers(sr beep.SampleRate, volume float64) map[systems.Cue]*beep.Buffer {
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	out := make(map[systems.Cue]*beep.Buffer, len(systems.AllCues))
	for _, cue := range systems.AllCues {
		var s beep.Streamer
		if tone, ok := tones.ToneFor(string(cue)); ok {
			s = samplesStreamer(tone.Samples(int(sr)), volume)
		} else {
			sine, err := generators.SineTone(sr, 880)
			if err != nil {
				log.Printf("[Sound] Warning: no tone for cue %s: %v", cue, err)
				continue
			}
			s = beep.Take(sr.N(50*time.Millisecond), sine)
		}
		buf := beep.NewBuffer(format)
		buf.Append(s)
		out[cue] = buf
	}
	return out
}

// samplesStreamer 把单声道采样包装成双声道 Streamer
func samplesStreamer(samples []float64, gain float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy2(buf, samples[pos:], gain)
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float64, gain float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		v := src[i] * gain
		dst[i][0], dst[i][1] = v, v
	}
	return n
}

// PlayCue 实现 systems.CuePlayer
func (c *beepCues) PlayCue(cue systems.Cue) {
	buf, ok := c.buffers[cue]
	if !ok {
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

// Close 关闭扬声器
func (c *beepCues) Close() {
	speaker.Close()
}
