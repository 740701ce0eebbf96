package models

// Macros holds macronutrient quantities. Calories are kcal, the rest grams.
type Macros struct {
	Calories float64 `json:"calories" db:"calories"`
	Protein  float64 `json:"protein" db:"protein"`
	Carbs    float64 `json:"carbs" db:"carbs"`
	Fat      float64 `json:"fat" db:"fat"`
	Fiber    float64 `json:"fiber" db:"fiber"`
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
		Fiber:    m.Fiber + o.Fiber,
	}
}

// Sub returns m minus o.
func (m Macros) Sub(o Macros) Macros {
	return m.Add(o.Scale(-1))
}

// Scale multiplies every component by f.
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Calories: m.Calories * f,
		Protein:  m.Protein * f,
		Carbs:    m.Carbs * f,
		Fat:      m.Fat * f,
		Fiber:    m.Fiber * f,
	}
}
