package perception

// COCO class labels localized for navigator announcements. Unknown classes
// fall back to the raw detector label.
var classLabelsRU = map[string]string{
	"person":         "человек",
	"bicycle":        "велосипед",
	"car":            "автомобиль",
	"motorcycle":     "мотоцикл",
	"airplane":       "самолет",
	"bus":            "автобус",
	"train":          "поезд",
	"truck":          "грузовик",
	"boat":           "лодка",
	"traffic light":  "светофор",
	"fire hydrant":   "пожарный гидрант",
	"stop sign":      "знак стоп",
	"parking meter":  "парковочный автомат",
	"bench":          "скамейка",
	"bird":           "птица",
	"cat":            "кошка",
	"dog":            "собака",
	"horse":          "лошадь",
	"sheep":          "овца",
	"cow":            "корова",
	"backpack":       "рюкзак",
	"umbrella":       "зонтик",
	"handbag":        "сумка",
	"suitcase":       "чемодан",
	"bottle":         "бутылка",
	"cup":            "чашка",
	"chair":          "стул",
	"couch":          "диван",
	"potted plant":   "растение в горшке",
	"bed":            "кровать",
	"dining table":   "обеденный стол",
	"tv":             "телевизор",
	"laptop":         "ноутбук",
	"mouse":          "мышь",
	"remote":         "пульт",
	"keyboard":       "клавиатура",
	"cell phone":     "телефон",
	"microwave":      "микроволновка",
	"oven":           "печь",
	"toaster":        "тостер",
	"sink":           "раковина",
	"refrigerator":   "холодильник",
	"book":           "книга",
	"clock":          "часы",
	"vase":           "ваза",
	"scissors":       "ножницы",
	"teddy bear":     "плюшевый мишка",
	"hair drier":     "фен",
	"toothbrush":     "зубная щетка",
}

// LocalizeLabels maps detector class names to their spoken Russian form,
// dropping duplicates while preserving first-seen order.
func LocalizeLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		name := label
		if ru, ok := classLabelsRU[label]; ok {
			name = ru
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
