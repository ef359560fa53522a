package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultFPS is the composition frame rate used when a video is not inspected.
const DefaultFPS = 30

// VideoInfo holds duration and frame rate information from ffprobe.
type VideoInfo struct {
	Duration  float64
	FrameRate float64
	Codec     string
	Width     int
	Height    int
}

// Available returns true if ffprobe is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// ffprobeReport mirrors the ffprobe JSON structure.
type ffprobeReport struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName  string `json:"codec_name"`
		RFrameRate string `json:"r_frame_rate"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	} `json:"streams"`
}

// ReadVideoInfo uses ffprobe to get the duration and frame rate of the first
// video stream.
func ReadVideoInfo(ctx context.Context, path string) (*VideoInfo, error) {
	if !Available() {
		return nil, fmt.Errorf("ffprobe not found on PATH")
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,r_frame_rate,width,height:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseVideoInfo(out)
}

func parseVideoInfo(out []byte) (*VideoInfo, error) {
	var report ffprobeReport
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, err := strconv.ParseFloat(report.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("ffprobe duration %q: %w", report.Format.Duration, err)
	}

	info := &VideoInfo{Duration: dur, Codec: "N/A"}
	if len(report.Streams) > 0 {
		s := report.Streams[0]
		if s.CodecName != "" {
			info.Codec = s.CodecName
		}
		info.FrameRate = parseFrameRate(s.RFrameRate)
		info.Width = s.Width
		info.Height = s.Height
	}
	return info, nil
}

// parseFrameRate decodes ffprobe rationals such as "30000/1001". Unknown
// values return 0.
func parseFrameRate(value string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0
		}
		return f
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n / d
}

// FrameCount returns the number of whole frames in duration seconds at fps.
func FrameCount(duration, fps float64) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Floor(duration * fps))
}

// IsVideoExtension returns true for common video file extensions.
func IsVideoExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp4", ".mkv", ".mov", ".avi", ".flv", ".webm":
		return true
	}
	return false
}

// LogVideoInfo logs file size and video information.
func LogVideoInfo(ctx context.Context, path string) *VideoInfo {
	stat, err := os.Stat(path)
	if err != nil {
		slog.Warn("cannot stat file", "path", path, "err", err)
		return nil
	}

	sizeMB := float64(stat.Size()) / (1024 * 1024)
	msg := fmt.Sprintf("file size: %.2f MB", sizeMB)

	info, err := ReadVideoInfo(ctx, path)
	if err == nil && info != nil {
		minutes := int(info.Duration) / 60
		seconds := int(info.Duration) % 60
		msg += fmt.Sprintf(" | duration: %02d:%02d | fps: %.3f | codec: %s", minutes, seconds, info.FrameRate, info.Codec)
	} else {
		slog.Warn("read video info failed", "path", path, "err", err)
	}

	slog.Info(msg)
	return info
}
