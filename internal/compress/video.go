package compress

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
)

// codecPlan is a concrete container/codec choice for a transcode
type codecPlan struct {
	MIME       string
	VideoCodec string
	AudioCodec string // empty: drop audio
}

type codecCandidate struct {
	mime   string
	video  string
	audios []string
}

// Preference order per target container. The last entry of every list
// uses encoders that ship with every ffmpeg build.
var codecCandidates = map[string][]codecCandidate{
	"video/webm": {
		{mime: "video/webm", video: "libvpx", audios: []string{"libvorbis", "libopus"}},
		{mime: "video/webm", video: "libvpx-vp9", audios: []string{"libopus", "libvorbis"}},
		{mime: "video/mp4", video: "mpeg4", audios: []string{"aac"}},
	},
	"video/mp4": {
		{mime: "video/mp4", video: "libx264", audios: []string{"aac"}},
		{mime: "video/mp4", video: "mpeg4", audios: []string{"aac"}},
	},
}

// negotiate picks the first candidate whose video encoder is available.
// substituted reports that the container differs from the target.
func negotiate(available map[string]bool, target string) (plan codecPlan, substituted bool) {
	target = BaseMIME(target)
	candidates, ok := codecCandidates[target]
	if !ok {
		candidates = codecCandidates["video/webm"]
	}

	chosen := candidates[len(candidates)-1]
	for _, c := range candidates {
		if available[c.video] {
			chosen = c
			break
		}
	}

	plan = codecPlan{MIME: chosen.mime, VideoCodec: chosen.video}
	for _, a := range chosen.audios {
		if available[a] {
			plan.AudioCodec = a
			break
		}
	}
	return plan, plan.MIME != target
}

// parseEncoders reads the output of `ffmpeg -encoders`
func parseEncoders(r io.Reader) map[string]bool {
	out := make(map[string]bool)
	sc := bufio.NewScanner(r)
	pastHeader := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "------") {
			pastHeader = true
			continue
		}
		if !pastHeader {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && len(fields[0]) == 6 {
			out[fields[1]] = true
		}
	}
	return out
}

type probeResult struct {
	Width    int
	Height   int
	HasAudio bool
	Duration time.Duration
}

// parseProbe reads ffprobe JSON output
func parseProbe(data []byte) (probeResult, error) {
	var raw struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return probeResult{}, err
	}

	var res probeResult
	for _, s := range raw.Streams {
		switch s.CodecType {
		case "video":
			if res.Width == 0 {
				res.Width, res.Height = s.Width, s.Height
			}
		case "audio":
			res.HasAudio = true
		}
	}
	if res.Width <= 0 || res.Height <= 0 {
		return res, errors.New("no video stream")
	}
	if secs, err := strconv.ParseFloat(raw.Format.Duration, 64); err == nil {
		res.Duration = time.Duration(secs * float64(time.Second))
	}
	return res, nil
}

// transcodeArgs builds the ffmpeg command line
func transcodeArgs(in, out string, w, h int, p Profile, plan codecPlan, hasAudio bool, limit time.Duration) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostats", "-y", "-i", in}
	if limit > 0 {
		args = append(args, "-t", strconv.FormatFloat(limit.Seconds(), 'f', -1, 64))
	}
	args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", w, h))
	if p.FrameRate > 0 {
		args = append(args, "-r", strconv.FormatFloat(p.FrameRate, 'f', -1, 64))
	}

	args = append(args, "-c:v", plan.VideoCodec)
	if p.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(p.Bitrate))
	}
	q := clampQuality(p.Quality)
	switch plan.VideoCodec {
	case "libvpx", "libvpx-vp9":
		args = append(args, "-crf", strconv.Itoa(63-q*59/100), "-deadline", "realtime", "-cpu-used", "8")
	case "libx264":
		args = append(args, "-crf", strconv.Itoa(51-q*33/100), "-preset", "veryfast")
	case "mpeg4":
		args = append(args, "-q:v", strconv.Itoa(31-q*29/100))
	}
	args = append(args, "-pix_fmt", "yuv420p")

	if hasAudio && plan.AudioCodec != "" {
		args = append(args, "-c:a", plan.AudioCodec, "-b:a", "128k")
	} else {
		args = append(args, "-an")
	}

	if plan.MIME == "video/mp4" {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, out)
}

// encoderListTimeout bounds `ffmpeg -encoders`, which runs detached from the
// caller's cancellation because its result outlives the request.
const encoderListTimeout = 10 * time.Second

// availableEncoders lists ffmpeg's encoders once per engine. A failed listing
// is not remembered, so the next transcode asks again.
func (e *Engine) availableEncoders(ctx context.Context) map[string]bool {
	e.encodersMu.Lock()
	defer e.encodersMu.Unlock()
	if e.encoders != nil {
		return e.encoders
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), encoderListTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, e.ffmpeg, "-hide_banner", "-encoders").Output()
	if err != nil {
		e.logger.Warn("failed to list ffmpeg encoders", "error", err)
		return map[string]bool{}
	}
	e.encoders = parseEncoders(bytes.NewReader(out))
	return e.encoders
}

func (e *Engine) probe(ctx context.Context, path string) (probeResult, error) {
	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "error",
		"-show_entries", "stream=codec_type,width,height:format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return probeResult{}, err
	}
	return parseProbe(out)
}

func (e *Engine) compressVideo(ctx context.Context, asset *domain.MediaAsset, p Profile) (*domain.MediaAsset, error) {
	info, err := e.probe(ctx, asset.Path)
	if err != nil {
		return nil, fail(StageProbe, asset.Name, err)
	}

	plan, substituted := negotiate(e.availableEncoders(ctx), p.TargetMIME)
	if substituted {
		e.logger.Warn("target video codec unavailable, substituting",
			"target", p.TargetMIME, "using", plan.MIME, "codec", plan.VideoCodec)
	}

	w, h := evenFit(info.Width, info.Height, p.MaxWidth, p.MaxHeight)
	name := ChangeExtension(asset.Name, plan.MIME)
	out, err := e.tempFile(name)
	if err != nil {
		return nil, fail(StageVideo, asset.Name, err)
	}
	outPath := out.Name()
	out.Close()

	args := transcodeArgs(asset.Path, outPath, w, h, p, plan, info.HasAudio, e.captureLimit)
	e.logger.Debug("transcoding video", "file", asset.Name, "width", w, "height", h, "codec", plan.VideoCodec)

	if err := e.runFFmpeg(ctx, args); err != nil {
		os.Remove(outPath)
		return nil, fail(StageVideo, asset.Name, err)
	}

	return e.tempAsset(domain.MediaVideo, name, outPath, plan.MIME)
}

// runFFmpeg runs ffmpeg under the wall-clock capture limit. When the limit
// elapses ffmpeg is asked to quit so the partial output is finalised;
// cancelling ctx kills it outright.
func (e *Engine) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.ffmpeg, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	var watchdog *time.Timer
	if e.captureLimit > 0 {
		watchdog = time.AfterFunc(e.captureLimit, func() {
			e.logger.Warn("video capture limit reached, stopping ffmpeg", "limit", e.captureLimit)
			_, _ = io.WriteString(stdin, "q")
		})
	}

	err = cmd.Wait()
	if watchdog != nil {
		watchdog.Stop()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[len(msg)-500:]
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}
