package game

// EventType 运行时事件类型
type EventType string

const (
	EventToast           EventType = "toast"            // 提示条
	EventOverlay         EventType = "overlay"          // 教学/开场遮罩的显示与隐藏
	EventObjective       EventType = "objective"        // 当前目标文案
	EventObjectiveUpdate EventType = "objective_update" // 交付进度
	EventCarryUpdate     EventType = "carry_update"     // 携带量变化
	EventFeedback        EventType = "feedback"         // 表现层反馈（脉冲、闪烁等）
	EventEnd             EventType = "end"              // 本局结束，每局恰好一次
)

// 提示语气
const (
	ToneNeutral = "neutral"
	ToneGood    = "good"
	ToneWarn    = "warn"
	ToneDanger  = "danger"
)

// 结局原因
const (
	OutcomeKO            = "ko"
	OutcomeTimerComplete = "timer_complete"
	OutcomeVictory       = "victory"
)

// EndStats 结算统计
type EndStats struct {
	FinalScore      int `yaml:"finalScore"`
	SurvivedSeconds int `yaml:"survivedSeconds"`
	ScrapDelivered  int `yaml:"scrapDelivered"`
	ScrapCollected  int `yaml:"scrapCollected"`
}

// EndPayload 结算界面所需的全部内容
type EndPayload struct {
	Outcome         string
	Title           string
	Body            string
	PrimaryAction   string
	SecondaryAction string
	Tip             string // 失败时轮换的提示，胜利为空
	Stats           EndStats
}

// Event 运行时向表现层发出的一次性通知
//
// 不同类型只使用其中一部分字段：
//   - toast: Key, Message, Tone, Values
//   - overlay: Key, Message, Visible（隐藏时 Key 为空）
//   - objective: Message
//   - objective_update / carry_update: Key, Current, Total
//   - feedback: Key
//   - end: End
type Event struct {
	Type    EventType
	Key     string
	Message string
	Tone    string
	Values  map[string]string

	Visible bool
	Current int
	Total   int

	End *EndPayload
}
