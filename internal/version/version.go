package version

const Value = "1.0.0"

func ClientUserAgent() string {
	return "QuantOps/" + Value + " (audit terminal)"
}

func WatchUserAgent() string {
	return "QuantOps-Watch/" + Value
}
