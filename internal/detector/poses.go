package detector

// Preset landmark poses for tests and the mock detector. Coordinates are
// normalized camera coordinates for a right hand facing the camera,
// fingers pointing up, wrist near the bottom of the frame.

// OpenHandPose returns a hand with all fingers extended and no pinch.
func OpenHandPose() HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb extended to the side
	h.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.37, Y: 0.67}
	h.Points[ThumbTip] = Point3D{X: 0.35, Y: 0.62}

	// Index finger extended
	h.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.60}
	h.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.50}
	h.Points[IndexDIP] = Point3D{X: 0.435, Y: 0.42}
	h.Points[IndexTip] = Point3D{X: 0.43, Y: 0.35}

	// Middle finger extended
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.58}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.47}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.39}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.32}

	// Ring finger extended
	h.Points[RingMCP] = Point3D{X: 0.55, Y: 0.60}
	h.Points[RingPIP] = Point3D{X: 0.555, Y: 0.50}
	h.Points[RingDIP] = Point3D{X: 0.56, Y: 0.42}
	h.Points[RingTip] = Point3D{X: 0.56, Y: 0.35}

	// Pinky extended
	h.Points[PinkyMCP] = Point3D{X: 0.60, Y: 0.63}
	h.Points[PinkyPIP] = Point3D{X: 0.61, Y: 0.55}
	h.Points[PinkyDIP] = Point3D{X: 0.615, Y: 0.49}
	h.Points[PinkyTip] = Point3D{X: 0.62, Y: 0.44}

	return h
}

// PinchIndexPose returns a hand with the index fingertip touching the
// thumb tip, the rest of the fingers extended.
func PinchIndexPose() HandLandmarks {
	h := OpenHandPose()

	h.Points[IndexPIP] = Point3D{X: 0.41, Y: 0.55}
	h.Points[IndexDIP] = Point3D{X: 0.38, Y: 0.60}
	h.Points[IndexTip] = Point3D{X: 0.355, Y: 0.625}

	return h
}

// PinchMiddlePose returns a hand with the middle fingertip touching the
// thumb tip, the rest of the fingers extended.
func PinchMiddlePose() HandLandmarks {
	h := OpenHandPose()

	h.Points[MiddlePIP] = Point3D{X: 0.46, Y: 0.52}
	h.Points[MiddleDIP] = Point3D{X: 0.40, Y: 0.58}
	h.Points[MiddleTip] = Point3D{X: 0.355, Y: 0.625}

	return h
}

// FistPose returns a closed fist: all four fingers curled toward the palm
// and the thumb folded across, away from the fingertips.
func FistPose() HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.77}
	h.Points[ThumbMCP] = Point3D{X: 0.41, Y: 0.74}
	h.Points[ThumbIP] = Point3D{X: 0.39, Y: 0.72}
	h.Points[ThumbTip] = Point3D{X: 0.38, Y: 0.71}

	h.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.60}
	h.Points[IndexPIP] = Point3D{X: 0.45, Y: 0.55}
	h.Points[IndexDIP] = Point3D{X: 0.455, Y: 0.60}
	h.Points[IndexTip] = Point3D{X: 0.46, Y: 0.66}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.58}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.53}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.59}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.66}

	h.Points[RingMCP] = Point3D{X: 0.55, Y: 0.60}
	h.Points[RingPIP] = Point3D{X: 0.55, Y: 0.56}
	h.Points[RingDIP] = Point3D{X: 0.545, Y: 0.61}
	h.Points[RingTip] = Point3D{X: 0.54, Y: 0.67}

	h.Points[PinkyMCP] = Point3D{X: 0.60, Y: 0.63}
	h.Points[PinkyPIP] = Point3D{X: 0.59, Y: 0.60}
	h.Points[PinkyDIP] = Point3D{X: 0.585, Y: 0.64}
	h.Points[PinkyTip] = Point3D{X: 0.58, Y: 0.69}

	return h
}

// Translate returns a copy of the hand shifted by (dx, dy) in normalized
// camera coordinates. Tests use it to move a pose around the frame.
func Translate(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}
