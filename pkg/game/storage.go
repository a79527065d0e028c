package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存档目录名，桌面、终端与模拟器共用同一份设置和记录
const AppName = "magorbit"

// Storage 一次进程内共享的持久化组件
type Storage struct {
	Manager  *gdata.Manager // 降级模式下为 nil
	Settings *SettingsManager
	Scores   *ScoreStore
}

// Persistent 是否写入磁盘
func (s *Storage) Persistent() bool {
	return s.Manager != nil
}

// OpenStorage 打开 gdata 存档并加载设置与记录
//
// 存档目录无法打开时不返回错误，而是以内存模式运行：
// 设置与记录照常工作，只是退出后丢失。
func OpenStorage(appName string) *Storage {
	manager, err := openManager(appName)
	if err != nil {
		log.Printf("[Storage] Warning: %v (running without persistence)", err)
	}
	return &Storage{
		Manager:  manager,
		Settings: NewSettingsManager(manager),
		Scores:   NewScoreStore(manager),
	}
}

func openManager(appName string) (*gdata.Manager, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open save storage %q: %w", appName, err)
	}
	log.Printf("[Storage] Opened save storage %q", appName)
	return manager, nil
}

// MemoryStorage 不落盘的存储，供测试与 -save=false 的模拟使用
func MemoryStorage() *Storage {
	return &Storage{
		Settings: NewSettingsManager(nil),
		Scores:   NewScoreStore(nil),
	}
}
