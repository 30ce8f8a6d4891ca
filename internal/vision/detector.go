package vision

import "gocv.io/x/gocv"

// Detector 手部关键点检测器
// 输入一帧画面，输出检测到的手；空切片表示画面中没有手。
type Detector interface {
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close 释放检测器持有的资源
	Close() error
}
