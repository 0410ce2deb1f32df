package media

import (
	"context"
	"errors"
	"testing"

	"reenc/internal/media/ffprobe"
	"reenc/internal/services"
)

func fakeInspect(result ffprobe.Result, err error, calls *int) ProberOption {
	return WithInspect(func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		if calls != nil {
			*calls++
		}
		return result, err
	})
}

func TestProbeValidInput(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264"},
			{CodecType: "audio", CodecName: "aac"},
		},
		Format: ffprobe.Format{Duration: "120.5"},
	}

	p := NewProber("ffprobe", nil, fakeInspect(result, nil, nil))
	info, err := p.Probe(context.Background(), "/media/clip.mkv")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if info.VideoCodec != "h264" || info.AudioCodec != "aac" || info.DurationSeconds != 120.5 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !info.HasAudio() {
		t.Fatal("expected HasAudio")
	}
}

func TestProbeNoAudioStream(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "hevc"}},
		Format:  ffprobe.Format{Duration: "60"},
	}

	p := NewProber("ffprobe", nil, fakeInspect(result, nil, nil))
	info, err := p.Probe(context.Background(), "/media/silent.mkv")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if info.HasAudio() {
		t.Fatalf("expected no audio, got %q", info.AudioCodec)
	}
}

func TestProbeRejectsStreamLayouts(t *testing.T) {
	cases := []struct {
		name    string
		streams []ffprobe.Stream
	}{
		{"no video", []ffprobe.Stream{{CodecType: "audio", CodecName: "aac"}}},
		{"two video", []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264"},
			{CodecType: "video", CodecName: "mjpeg"},
		}},
		{"two audio", []ffprobe.Stream{
			{CodecType: "video", CodecName: "h264"},
			{CodecType: "audio", CodecName: "aac"},
			{CodecType: "audio", CodecName: "ac3"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ffprobe.Result{Streams: tc.streams, Format: ffprobe.Format{Duration: "10"}}
			p := NewProber("ffprobe", nil, fakeInspect(result, nil, nil))
			_, err := p.Probe(context.Background(), "/media/bad.mkv")
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProbeRequiresDuration(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264"}},
	}
	p := NewProber("ffprobe", nil, fakeInspect(result, nil, nil))
	_, err := p.Probe(context.Background(), "/media/noformat.mkv")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProbeMemoizesPerPath(t *testing.T) {
	calls := 0
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264"}},
		Format:  ffprobe.Format{Duration: "30"},
	}
	p := NewProber("ffprobe", nil, fakeInspect(result, nil, &calls))

	for i := 0; i < 3; i++ {
		if _, err := p.Probe(context.Background(), "/media/clip.mkv"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 ffprobe invocation, got %d", calls)
	}
}

func TestProbeToolFailure(t *testing.T) {
	p := NewProber("ffprobe", nil, fakeInspect(ffprobe.Result{}, errors.New("exit status 1"), nil))
	_, err := p.Probe(context.Background(), "/media/corrupt.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if p.IsVideo(context.Background(), "/media/corrupt.mkv") {
		t.Fatal("IsVideo should be false when probing fails")
	}
}
