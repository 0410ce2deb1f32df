package config

const (
	defaultStagingDir         = "~/.local/share/reenc/staging"
	defaultLogDir             = "~/.local/share/reenc/logs"
	defaultLedgerPath         = "~/.local/share/reenc/badencodings.db"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultCRF                = 23
	defaultPreset             = "fast"
	defaultTargetVideoCodec   = "hevc"
	defaultTargetAudioCodec   = "aac"
	defaultVideoEncoder       = "libx265"
	defaultAudioEncoder       = "aac"
	defaultScratchMaxAgeHours = 24
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Presets lists the encoder speed presets accepted by the preset knobs,
// ordered fastest to slowest.
var Presets = []string{
	"ultrafast",
	"superfast",
	"veryfast",
	"faster",
	"fast",
	"medium",
	"slow",
	"slower",
	"veryslow",
}

// IsPreset reports whether name is a recognized encoder preset.
func IsPreset(name string) bool {
	for _, preset := range Presets {
		if preset == name {
			return true
		}
	}
	return false
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		Encoder: Encoder{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			CRF:              defaultCRF,
			Preset:           defaultPreset,
			TargetVideoCodec: defaultTargetVideoCodec,
			TargetAudioCodec: defaultTargetAudioCodec,
			VideoEncoder:     defaultVideoEncoder,
			AudioEncoder:     defaultAudioEncoder,
		},
		Staging: Staging{
			ScratchMaxAgeHours: defaultScratchMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
