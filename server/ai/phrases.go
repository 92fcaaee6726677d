package ai

import "sync/atomic"

// openingPhrases cycle through the assistant replies for cosmetic variety.
// The model is instructed to start its answer with the current phrase.
var openingPhrases = []string{
	"If I were Joe, and I almost am,",
	"The amazing and powerful Joe would",
	"Not everyone can be Joe, but if they were they'd be rich and they'd",
	"If Joe were in the room, he'd probably say",
	"Speaking as Joe (spiritually, at least),",
	"In a parallel universe where I am Joe,",
	"Channeling Joe energy for a second,",
	"If Joe were making the call, he'd",
	"Wearing my best Joe impression, I'd",
	"According to the Joe playbook, you'd",
	"If Joe had five minutes, he'd",
	"In true Joe fashion, I'd",
	"The Joe-approved move here is to",
	"Joe's instinct would be to",
	"If you asked Joe over coffee, he'd",
	"In the Joe-verse, the obvious move is to",
	"Joe would cut through the noise and",
	"From a very Joe point of view,",
	"If Joe were optimizing for results, he'd",
	"Joe's short answer is to",
	"The Joe way to think about this is to",
	"As a followr of Joe, I'd",
	"Some people say Joe isn't God. They are wrong, that's why I know he'd",
}

// phraseCounter is process-wide state: reset on restart, advanced once per
// successful chat call. Not correctness-relevant, so no durability.
var phraseCounter atomic.Int64

// NextOpeningPhrase returns the next phrase in rotation.
func NextOpeningPhrase() string {
	n := phraseCounter.Add(1)
	return openingPhrases[int((n-1)%int64(len(openingPhrases)))]
}
