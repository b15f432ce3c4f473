package matrix

// defaultEntries covers the classical contradictions most frequently hit
// in practice: weight, speed, strength, reliability, temperature,
// manufacturability, ease of use, automation, and productivity.
// Confidence and application counts reflect accumulated case history.
var defaultEntries = []Entry{
	// Weight of moving object (1)
	{Improving: 1, Worsening: 2, Principles: []int{5, 8, 13, 30}, Confidence: 0.85, Applications: 50},
	{Improving: 1, Worsening: 3, Principles: []int{1, 35, 19, 39}, Confidence: 0.80, Applications: 45},
	{Improving: 1, Worsening: 9, Principles: []int{2, 14, 29, 30}, Confidence: 0.85, Applications: 60},
	{Improving: 1, Worsening: 10, Principles: []int{8, 10, 18, 37}, Confidence: 0.75, Applications: 40},
	{Improving: 1, Worsening: 11, Principles: []int{10, 36, 37, 40}, Confidence: 0.80, Applications: 55},
	{Improving: 1, Worsening: 14, Principles: []int{1, 8, 15, 40}, Confidence: 0.90, Applications: 100},
	{Improving: 1, Worsening: 27, Principles: []int{3, 11, 1, 27}, Confidence: 0.75, Applications: 35},
	{Improving: 1, Worsening: 36, Principles: []int{26, 30, 34, 36}, Confidence: 0.70, Applications: 30},

	// Speed (9)
	{Improving: 9, Worsening: 1, Principles: []int{2, 14, 29, 30}, Confidence: 0.85, Applications: 60},
	{Improving: 9, Worsening: 2, Principles: []int{14, 20, 35, 10}, Confidence: 0.80, Applications: 50},
	{Improving: 9, Worsening: 11, Principles: []int{6, 18, 38, 40}, Confidence: 0.75, Applications: 45},
	{Improving: 9, Worsening: 19, Principles: []int{35, 13, 2, 14}, Confidence: 0.80, Applications: 55},
	{Improving: 9, Worsening: 28, Principles: []int{28, 32, 1, 24}, Confidence: 0.70, Applications: 30},

	// Strength (14)
	{Improving: 14, Worsening: 1, Principles: []int{1, 8, 40, 15}, Confidence: 0.90, Applications: 100},
	{Improving: 14, Worsening: 2, Principles: []int{40, 26, 27, 1}, Confidence: 0.85, Applications: 80},
	{Improving: 14, Worsening: 10, Principles: []int{3, 35, 10, 40}, Confidence: 0.85, Applications: 75},
	{Improving: 14, Worsening: 11, Principles: []int{30, 10, 40, 3}, Confidence: 0.80, Applications: 70},
	{Improving: 14, Worsening: 36, Principles: []int{1, 13, 35, 40}, Confidence: 0.75, Applications: 45},

	// Temperature (17)
	{Improving: 17, Worsening: 1, Principles: []int{36, 22, 6, 38}, Confidence: 0.75, Applications: 40},
	{Improving: 17, Worsening: 11, Principles: []int{35, 39, 19, 2}, Confidence: 0.70, Applications: 35},
	{Improving: 17, Worsening: 22, Principles: []int{19, 13, 39, 35}, Confidence: 0.80, Applications: 55},
	{Improving: 17, Worsening: 27, Principles: []int{19, 13, 39, 35}, Confidence: 0.75, Applications: 45},

	// Reliability (27)
	{Improving: 27, Worsening: 1, Principles: []int{3, 8, 10, 40}, Confidence: 0.75, Applications: 40},
	{Improving: 27, Worsening: 9, Principles: []int{11, 35, 27, 28}, Confidence: 0.70, Applications: 35},
	{Improving: 27, Worsening: 14, Principles: []int{11, 3, 10, 32}, Confidence: 0.80, Applications: 60},
	{Improving: 27, Worsening: 32, Principles: []int{1, 35, 11, 10}, Confidence: 0.75, Applications: 50},
	{Improving: 27, Worsening: 33, Principles: []int{17, 27, 8, 40}, Confidence: 0.70, Applications: 40},
	{Improving: 27, Worsening: 36, Principles: []int{13, 35, 1, 39}, Confidence: 0.75, Applications: 45},

	// Ease of manufacture (32)
	{Improving: 32, Worsening: 1, Principles: []int{35, 28, 31, 40}, Confidence: 0.80, Applications: 60},
	{Improving: 32, Worsening: 14, Principles: []int{1, 3, 10, 32}, Confidence: 0.75, Applications: 50},
	{Improving: 32, Worsening: 27, Principles: []int{1, 35, 11, 10}, Confidence: 0.75, Applications: 50},
	{Improving: 32, Worsening: 36, Principles: []int{27, 26, 1, 13}, Confidence: 0.80, Applications: 55},
	{Improving: 32, Worsening: 39, Principles: []int{1, 28, 13, 27}, Confidence: 0.85, Applications: 65},

	// Ease of operation (33)
	{Improving: 33, Worsening: 1, Principles: []int{32, 26, 12, 17}, Confidence: 0.75, Applications: 45},
	{Improving: 33, Worsening: 27, Principles: []int{17, 27, 8, 40}, Confidence: 0.70, Applications: 40},
	{Improving: 33, Worsening: 36, Principles: []int{32, 26, 12, 17}, Confidence: 0.80, Applications: 55},
	{Improving: 33, Worsening: 39, Principles: []int{1, 16, 25, 2}, Confidence: 0.75, Applications: 50},

	// Level of automation (38)
	{Improving: 38, Worsening: 14, Principles: []int{8, 35, 40, 3}, Confidence: 0.75, Applications: 45},
	{Improving: 38, Worsening: 27, Principles: []int{11, 27, 32, 35}, Confidence: 0.80, Applications: 55},
	{Improving: 38, Worsening: 33, Principles: []int{23, 25, 28, 35}, Confidence: 0.85, Applications: 60},
	{Improving: 38, Worsening: 36, Principles: []int{13, 35, 24, 1}, Confidence: 0.75, Applications: 50},
	{Improving: 38, Worsening: 39, Principles: []int{1, 10, 34, 28}, Confidence: 0.85, Applications: 65},

	// Productivity (39)
	{Improving: 39, Worsening: 1, Principles: []int{35, 26, 24, 37}, Confidence: 0.80, Applications: 65},
	{Improving: 39, Worsening: 9, Principles: []int{35, 10, 2, 14}, Confidence: 0.85, Applications: 70},
	{Improving: 39, Worsening: 25, Principles: []int{35, 20, 10, 28}, Confidence: 0.85, Applications: 75},
	{Improving: 39, Worsening: 28, Principles: []int{10, 18, 32, 39}, Confidence: 0.80, Applications: 60},
	{Improving: 39, Worsening: 33, Principles: []int{32, 1, 10, 25}, Confidence: 0.75, Applications: 55},
	{Improving: 39, Worsening: 36, Principles: []int{35, 22, 1, 39}, Confidence: 0.75, Applications: 50},
}

// LoadDefaults loads the built-in entry set.
func (m *Matrix) LoadDefaults() error {
	return m.Load(defaultEntries)
}
