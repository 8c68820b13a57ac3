package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/logger"
)

const (
	defaultDownloaderBinary = "yt-dlp"
	defaultAudioCodec       = "m4a"
)

// Extensions probed when the preferred codec's file did not show up
// yt-dlp may keep the source container instead of converting
var fallbackExtensions = []string{"m4a", "mp3", "wav", "aac", "ogg", "flac"}

type DownloaderConfig struct {
	// Path or name of the yt-dlp binary
	// If not set than default is used
	Binary string

	// Audio codec to extract to, default m4a
	Codec string
}

// Downloader fetches the audio track of a video to a local temporary file
// It never deletes the file: cleanup belongs to the pipeline
type Downloader struct {
	binary string
	codec  string
	logger logger.Logger
}

func NewDownloader(cfg DownloaderConfig, l logger.Logger) *Downloader {
	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.Binary, defaultDownloaderBinary)
	setDefaultString(&cfg.Codec, defaultAudioCodec)

	return &Downloader{
		binary: cfg.Binary,
		codec:  cfg.Codec,
		logger: l,
	}
}

// Fetch downloads the best audio-only stream of url and returns the path of
// the produced file. Exactly one file is created per call, named uniquely so
// concurrent runs never collide. A playlist URL yields a single item only.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, error) {
	base, err := tempBasePath()
	if err != nil {
		return "", err
	}

	// yt-dlp appends the audio extension to the output template itself
	cmd := exec.CommandContext(ctx, d.binary,
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", d.codec,
		"--output", base,
		"--no-playlist",
		"--quiet",
		url,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w. Output: %s", err, out)
	}

	path := base + "." + d.codec
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	for _, ext := range fallbackExtensions {
		p := base + "." + ext
		if _, err := os.Stat(p); err == nil {
			d.logger.Debug("audio produced with fallback extension", "path", p)
			return p, nil
		}
	}

	return "", apperrors.ErrAudioNotFound
}

// Create a unique base name in the temp dir and remove the file itself, so
// the downloader can create the final file with the extension appended
func tempBasePath() (string, error) {
	f, err := os.CreateTemp("", "quizly_audio_*")
	if err != nil {
		return "", fmt.Errorf("error while creating temp file. Err: %w", err)
	}

	base := f.Name()
	_ = f.Close()
	_ = os.Remove(base)

	return base, nil
}
