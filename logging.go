package avif

// logDebug emits a Debug event with the given fields on d.options.Logger.
// It does nothing when the Logger is nil, since a *zerolog.Logger method
// call on a nil receiver panics; this helper centralizes that check.
func (d *Decoder) logDebug(msg string, fields map[string]any) {
	if d.options.Logger == nil {
		return
	}
	ev := d.options.Logger.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
