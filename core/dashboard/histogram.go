package dashboard

import "github.com/trezcool/tafakari/core/reflection"

// Tone is the color class of a satisfaction rating.
type Tone string

const (
	ToneLow  Tone = "low"
	ToneMid  Tone = "mid"
	ToneHigh Tone = "high"
)

// ToneOf classifies a rating: <=2 low, 3 mid, >=4 high.
func ToneOf(rating int) Tone {
	switch {
	case rating <= 2:
		return ToneLow
	case rating == 3:
		return ToneMid
	default:
		return ToneHigh
	}
}

type Bucket struct {
	Rating int  `json:"rating"`
	Count  int  `json:"count"`
	Tone   Tone `json:"tone"`
}

// ComputeSatisfactionHistogram counts reflections per rating, from 1 to 5.
// Ratings outside that range are not counted.
func ComputeSatisfactionHistogram(reflections []reflection.Reflection) []Bucket {
	buckets := make([]Bucket, 0, reflection.MaxSatisfaction)
	for rating := reflection.MinSatisfaction; rating <= reflection.MaxSatisfaction; rating++ {
		buckets = append(buckets, Bucket{Rating: rating, Tone: ToneOf(rating)})
	}
	for _, refl := range reflections {
		if refl.Satisfaction < reflection.MinSatisfaction || refl.Satisfaction > reflection.MaxSatisfaction {
			continue
		}
		buckets[refl.Satisfaction-reflection.MinSatisfaction].Count++
	}
	return buckets
}
