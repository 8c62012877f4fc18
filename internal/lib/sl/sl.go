package sl

import "log/slog"

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

func Module(name string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(name),
	}
}

// Secret logs only the shape of a sensitive value, never the value itself.
func Secret(key, val string) slog.Attr {
	masked := "<empty>"
	if val != "" {
		masked = "<set>"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
