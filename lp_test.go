package fincast

import "testing"

func req(goalID, accountID int, monthly float64) Requirement {
	return Requirement{
		Goal:          &Goal{ID: goalID, AccountID: accountID},
		AccountID:     accountID,
		MonthlyAmount: monthly,
		Months:        12,
	}
}

func TestBuildLPModel(t *testing.T) {
	reqs := []Requirement{
		req(1, 2, 208.33), // no cap, no lock
		req(2, 3, 50),     // locked
		req(3, 4, 50),     // capped at 75
	}
	constraints := &Constraints{
		LockedAccountIDs: []int{3},
		MaxMovement:      map[int]float64{4: 75},
	}
	cap := 500.0
	m := buildLPModel(reqs, constraints, &cap)

	t.Run("uncapped variable carries no max row", func(t *testing.T) {
		if _, ok := m.Constraints["g_1_max"]; ok {
			t.Error("g_1_max constraint present for an uncapped account")
		}
		if _, ok := m.Variables["g_1"].Coefficients["g_1_max"]; ok {
			t.Error("g_1 references a max row it should not have")
		}
	})
	t.Run("min rows always present", func(t *testing.T) {
		for name, want := range map[string]float64{"g_1_min": 208.33, "g_2_min": 50, "g_3_min": 50} {
			b, ok := m.Constraints[name]
			if !ok || b.Min == nil || *b.Min != want {
				t.Errorf("constraint %s = %+v, want min %v", name, b, want)
			}
		}
	})
	t.Run("locked account caps at zero", func(t *testing.T) {
		b := m.Constraints["g_2_max"]
		if b.Max == nil || *b.Max != 0 {
			t.Errorf("g_2_max = %+v, want max 0", b)
		}
	})
	t.Run("movement cap carried through", func(t *testing.T) {
		b := m.Constraints["g_3_max"]
		if b.Max == nil || *b.Max != 75 {
			t.Errorf("g_3_max = %+v, want max 75", b)
		}
	})
	t.Run("total outflow row sums every variable", func(t *testing.T) {
		b := m.Constraints["totalOutflow"]
		if b.Max == nil || *b.Max != 500 {
			t.Errorf("totalOutflow = %+v, want max 500", b)
		}
		for _, name := range []string{"g_1", "g_2", "g_3"} {
			if m.Variables[name].Coefficients["totalOutflow"] != 1 {
				t.Errorf("%s missing from the total outflow row", name)
			}
		}
	})
}

func TestBuildLPModelNoAggregateCap(t *testing.T) {
	m := buildLPModel([]Requirement{req(1, 2, 100)}, &Constraints{}, nil)
	if _, ok := m.Constraints["totalOutflow"]; ok {
		t.Error("totalOutflow row present without a monthly cap")
	}
	if len(m.Constraints) != 1 {
		t.Errorf("want only the min row, got %v", m.Constraints)
	}
}
