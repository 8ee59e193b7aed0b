package taxonomy

// Default returns the built-in taxonomy used when no taxonomy document is
// configured or the configured one cannot be loaded.
func Default() *Index {
	idx, err := New(defaultFamilies(), defaultSynonyms(), []string{"tutorial", "course", "masterclass"})
	if err != nil {
		// The built-in families are static; failing here is a programming error.
		panic("taxonomy: invalid built-in taxonomy: " + err.Error())
	}
	return idx
}

func defaultFamilies() []Family {
	return []Family{
		{
			ID:     "hard-dance",
			Name:   "Hard Dance",
			Styles: []string{"Hardstyle", "Rawstyle", "Hardcore", "Frenchcore", "Jumpstyle"},
			Keywords: map[string]float64{
				"hardstyle":  1.0,
				"rawstyle":   1.0,
				"hard dance": 1.0,
				"hardcore":   0.9,
				"frenchcore": 0.9,
				"gabber":     0.9,
				"jumpstyle":  0.9,
				"hard":       0.3,
			},
			Exclusions: []string{"hard techno", "hard trap"},
			Confidence: 0.95,
		},
		{
			ID:     "house",
			Name:   "House",
			Styles: []string{"Deep House", "Tech House", "Progressive House", "Future House", "Afro House"},
			Keywords: map[string]float64{
				"house":             0.8,
				"deep house":        1.0,
				"tech house":        1.0,
				"progressive house": 1.0,
				"future house":      1.0,
				"afro house":        1.0,
				"disco":             0.5,
				"garage":            0.5,
			},
			Confidence: 0.9,
		},
		{
			ID:     "techno",
			Name:   "Techno",
			Styles: []string{"Minimal", "Hard Techno", "Melodic Techno", "Industrial"},
			Keywords: map[string]float64{
				"techno":         0.9,
				"hard techno":    1.0,
				"melodic techno": 1.0,
				"minimal":        0.4,
				"industrial":     0.4,
				"acid":           0.3,
			},
			Confidence: 0.9,
		},
		{
			ID:     "drum-and-bass",
			Name:   "Drum & Bass",
			Styles: []string{"Liquid", "Neurofunk", "Jump Up", "Jungle"},
			Keywords: map[string]float64{
				"drum and bass": 1.0,
				"drum n bass":   1.0,
				"drum bass":     1.0,
				"dnb":           1.0,
				"d b":           0.9,
				"neurofunk":     1.0,
				"jungle":        0.8,
				"liquid":        0.4,
			},
			Confidence: 0.9,
		},
		{
			ID:     "dubstep",
			Name:   "Dubstep",
			Styles: []string{"Riddim", "Brostep", "Melodic Dubstep"},
			Keywords: map[string]float64{
				"dubstep": 1.0,
				"riddim":  0.9,
				"brostep": 0.9,
				"wobble":  0.4,
			},
			Confidence: 0.9,
		},
		{
			ID:     "trap",
			Name:   "Trap",
			Styles: []string{"Drill", "Hybrid Trap", "Phonk"},
			Keywords: map[string]float64{
				"trap":  0.9,
				"drill": 0.9,
				"phonk": 0.9,
				"808":   0.3,
			},
			Confidence: 0.9,
		},
		{
			ID:     "hip-hop",
			Name:   "Hip Hop",
			Styles: []string{"Boom Bap", "Lo-Fi", "Old School"},
			Keywords: map[string]float64{
				"hip hop":  1.0,
				"hiphop":   1.0,
				"boom bap": 1.0,
				"lofi":     0.8,
				"lo fi":    0.8,
				"rap":      0.6,
			},
			Confidence: 0.9,
		},
		{
			ID:     "trance",
			Name:   "Trance",
			Styles: []string{"Uplifting", "Psytrance", "Progressive Trance"},
			Keywords: map[string]float64{
				"trance":    1.0,
				"psytrance": 1.0,
				"uplifting": 0.4,
				"goa":       0.6,
			},
			Confidence: 0.9,
		},
		{
			ID:     "ambient",
			Name:   "Ambient",
			Styles: []string{"Drone", "Cinematic", "Chillout"},
			Keywords: map[string]float64{
				"ambient":    1.0,
				"drone":      0.7,
				"cinematic":  0.7,
				"chillout":   0.8,
				"atmosphere": 0.4,
			},
			Confidence: 0.85,
		},
	}
}

func defaultSynonyms() map[string]string {
	return map[string]string{
		"raw":       "Rawstyle",
		"neuro":     "Neurofunk",
		"lo fi":     "Lo-Fi",
		"lofi":      "Lo-Fi",
		"psy":       "Psytrance",
		"deep":      "Deep House",
		"tech":      "Tech House",
		"chill out": "Chillout",
		"old skool": "Old School",
	}
}
