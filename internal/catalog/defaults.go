package catalog

// defaultSpecs is the built-in catalog used when no catalog.yml is mounted.
// Rates mirror the carrier sheets the enrollment application is billed
// against; tests pin premiums computed from these values.
func defaultSpecs() []productSpec {
	return []productSpec{
		{
			Code: "vol_life",
			Type: "voluntaryLife",
			EmployerContribution: contributionSpec{
				Kind:   "percentage",
				Amount: 10,
			},
			Costs: map[string]roleRateSpec{
				"ee": {PerThousand: 0.35},
				"sp": {PerThousand: 0.12},
				"ch": {
					Bands: []rateBandSpec{
						{UpToCoverage: 25000, PerThousand: 0.2},
						{PerThousand: 0.18},
					},
				},
			},
		},
		{
			Code: "ltd",
			Type: "longTermDisability",
			EmployerContribution: contributionSpec{
				Kind:   "dollars",
				Amount: 10,
			},
			DisabilityRates: []ageBandSpec{
				{MaxAge: 29, PerThousand: 0.24},
				{MaxAge: 39, PerThousand: 0.36},
				{MaxAge: 49, PerThousand: 0.52},
				{PerThousand: 0.78},
			},
		},
		{
			Code: "commuter",
			Type: "commuter",
			EmployerContribution: contributionSpec{
				Kind:   "dollars",
				Amount: 75,
			},
			Benefits: map[string]float64{
				"parking": 250,
				"train":   84.75,
			},
		},
	}
}
