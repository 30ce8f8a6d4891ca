package vision

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/gonewx/fruitslash/pkg/config"
)

// serviceScript 感知服务脚本名
const serviceScript = "mediapipe_service.py"

// serviceIdleShutdown 服务空闲多久后自动关闭以释放内存
const serviceIdleShutdown = 30 * time.Second

// ErrServiceNotFound 找不到感知服务脚本
var ErrServiceNotFound = errors.New("hand tracking service script not found")

// MediaPipeDetector 通过 Python 子进程运行 MediaPipe 手部识别
//
// 协议：stdin 写入 4 字节大端长度 + JPEG 帧，stdout 每帧返回一行 JSON。
// 子进程在第一次 Detect 时按需启动，空闲超时后自动关闭。
type MediaPipeDetector struct {
	mu        sync.Mutex
	proc      *exec.Cmd
	in        io.WriteCloser
	out       *bufio.Reader
	idleTimer *time.Timer
}

// NewMediaPipeDetector 创建手部识别器
// 仅校验服务脚本存在，不立即启动子进程。
func NewMediaPipeDetector() (*MediaPipeDetector, error) {
	if locateFile(scriptCandidates()) == "" {
		return nil, ErrServiceNotFound
	}
	return &MediaPipeDetector{}, nil
}

// Detect 检测一帧画面中的手部关键点
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureRunning(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	defer buf.Close()

	if err := d.sendFrame(buf.GetBytes()); err != nil {
		return nil, err
	}

	hands, err := d.readHands()
	if err != nil {
		return nil, err
	}

	d.touch()
	return hands, nil
}

// Close 关闭后台子进程
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopService()
}

// ensureRunning 按需拉起 Python 子进程，优先使用虚拟环境里的解释器
func (d *MediaPipeDetector) ensureRunning() error {
	if d.proc != nil {
		return nil
	}

	script := locateFile(scriptCandidates())
	if script == "" {
		return ErrServiceNotFound
	}

	python := locateFile(pythonCandidates())
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, script,
		fmt.Sprintf("--max-hands=%d", config.HandMaxCount),
		fmt.Sprintf("--min-confidence=%.2f", config.HandMinDetectConfidence),
		fmt.Sprintf("--min-tracking=%.2f", config.HandMinTrackingConfidence),
	)
	cmd.Stderr = os.Stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("service stdin: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("service stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start hand tracking service: %w", err)
	}

	d.proc = cmd
	d.in = in
	d.out = bufio.NewReader(out)
	log.Printf("[Vision] Hand tracking service started: %s", script)

	return nil
}

// sendFrame 写入一帧请求：4 字节大端长度 + JPEG 数据
func (d *MediaPipeDetector) sendFrame(jpeg []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(jpeg)))

	if _, err := d.in.Write(header[:]); err != nil {
		return fmt.Errorf("service request: %w", err)
	}
	if _, err := d.in.Write(jpeg); err != nil {
		return fmt.Errorf("service request: %w", err)
	}
	return nil
}

// readHands 读取一行 JSON 响应并转换为手部关键点
func (d *MediaPipeDetector) readHands() ([]HandLandmarks, error) {
	line, err := d.out.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("service response: %w", err)
	}

	var reply struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &reply); err != nil {
		return nil, fmt.Errorf("service response: %w", err)
	}

	hands := make([]HandLandmarks, len(reply.Hands))
	for i, h := range reply.Hands {
		hands[i] = h.toLandmarks()
	}
	return hands, nil
}

// touch 重置空闲关闭定时器
func (d *MediaPipeDetector) touch() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(serviceIdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.stopService(); err != nil {
			log.Printf("[Vision] Hand tracking service exited: %v", err)
		}
	})
}

// stopService 关闭子进程并清理全部句柄
// 下一次 Detect 会重新拉起服务。
func (d *MediaPipeDetector) stopService() error {
	if d.proc == nil {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.in != nil {
		d.in.Close()
	}

	err := d.proc.Wait()
	d.proc = nil
	d.in = nil
	d.out = nil
	return err
}

// scriptCandidates 感知服务脚本的候选路径
func scriptCandidates() []string {
	return searchRoots(filepath.Join("scripts", serviceScript))
}

// pythonCandidates 虚拟环境 Python 解释器的候选路径
func pythonCandidates() []string {
	return searchRoots(filepath.Join("venv", "bin", "python"))
}

// searchRoots 在工作目录、上级目录、可执行文件所在目录和
// ~/.fruitslash 下拼出 rel 的候选路径。
func searchRoots(rel string) []string {
	candidates := []string{rel, filepath.Join("..", rel)}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), rel))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".fruitslash", rel))
	}
	return candidates
}

// locateFile 返回第一个存在的候选路径（尽量绝对化）
func locateFile(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// wireHand 感知服务返回的单手 JSON 结构
type wireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (h wireHand) toLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: h.Handedness, Score: h.Score}
	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = h.Points[i]
	}
	return lm
}
