package vision

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/gonewx/fruitslash/pkg/config"
)

// ErrCameraNotOpen 摄像头尚未打开
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera 摄像头抽象，测试中用 Mock 替换真实设备
type Camera interface {
	Open() error
	Close() error
	// ReadFrame 读取一帧画面；返回的 Mat 由调用方负责 Close
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// deviceCamera 基于 GoCV 的真实摄像头
//
// 打开时把分辨率固定为感知契约约定的 640×480；mirror 开启时水平
// 翻转画面（自拍视角），让屏幕上的刀光方向与玩家动作一致。
type deviceCamera struct {
	deviceID int
	mirror   bool

	mu     sync.Mutex
	vc     *gocv.VideoCapture
	opened bool
}

// NewCamera 创建指定设备编号的摄像头
func NewCamera(deviceID int, mirror bool) Camera {
	return &deviceCamera{deviceID: deviceID, mirror: mirror}
}

// Open 打开摄像头设备，重复调用是幂等的
func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opened {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, config.CameraFrameWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, config.CameraFrameHeight)

	c.vc = vc
	c.opened = true
	return nil
}

// Close 关闭摄像头并释放设备
func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return nil
	}
	c.opened = false

	vc := c.vc
	c.vc = nil
	if vc == nil {
		return nil
	}
	return vc.Close()
}

// ReadFrame 读取一帧画面，按需做水平镜像
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened || c.vc == nil {
		return nil, ErrCameraNotOpen
	}

	frame := gocv.NewMat()
	if !c.vc.Read(&frame) || frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("camera %d: no frame", c.deviceID)
	}

	if c.mirror {
		gocv.Flip(frame, &frame, 1)
	}
	return &frame, nil
}

// IsOpen 返回摄像头是否处于打开状态
func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}
