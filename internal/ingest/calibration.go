package ingest

// ApplyCalibration adjusts a raw weight by the device's fixed additive
// offset. The offset applies only when the raw value is present and the
// offset is non-zero; in every other case the raw value passes through
// unchanged, including when it is absent. Offsets are additive only;
// there is no scale calibration.
func ApplyCalibration(raw *float64, offset float64) *float64 {
	if raw == nil || offset == 0 {
		return raw
	}
	calibrated := *raw + offset
	return &calibrated
}
