package kundali

import "fmt"

const promptTemplate = `
use this data and get me Personalized gemstone suggestions. Pooja (rituals) recommendations with importance and benefits explained. Do's and Don'ts based on astrological insights.
Spiritual Content Delivery:
Meditation and workout suggestions aligned with horoscope insights. Sleep content tailored to user needs.
give answers in 2-3 lines for every topic
Input Data:
%s
`

// BuildPrompt embeds the serialized planetary payload into the fixed
// guidance prompt.
func BuildPrompt(planetaryPayload string) string {
	return fmt.Sprintf(promptTemplate, planetaryPayload)
}
