package config

// 游戏窗口配置
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
	GameWindowTitle  = "Fruit Slash"
)

// 摄像头输入契约
// 感知端（摄像头 + 手部关键点检测）按固定分辨率输出像素坐标，
// 轨迹跟踪器据此做相机空间到游戏空间的仿射映射。
const (
	CameraFrameWidth  = 640
	CameraFrameHeight = 480
)

// 手部识别配置
// 一只手足以驱动刀光；置信度阈值与感知服务的命令行参数一一对应。
const (
	HandMaxCount              = 1
	HandMinDetectConfidence   = 0.5
	HandMinTrackingConfidence = 0.5
)

// 物理配置
const (
	// Gravity 重力加速度（像素/秒²），屏幕坐标系 y 向下为正
	Gravity = 720.0
)

// 倒计时与场次配置
const (
	CountdownSeconds = 3.0
	// MaxDeltaTime 单帧最大时间步长（秒），卡顿时限制物理误差
	MaxDeltaTime = 0.1
)
