package chat

import "regexp"

// knowledgeEntry pairs a topic-detection pattern with a canned reply.
// First match wins, so broader patterns sit lower in the table.
type knowledgeEntry struct {
	pattern *regexp.Regexp
	answer  string
}

var knowledge = []knowledgeEntry{
	{
		pattern: regexp.MustCompile(`(?i)(what\s*(can|go|goes|should)\s*(i\s*)?(put|add)?\s*(in|into)?\s*compost|compostable|compost\s*items|fruit|vegetable|scrap|egg|coffee|tea|yard|napkin|paper)`),
		answer:  "🟩 You can compost: fruit & vegetable scraps, coffee grounds & filters, tea bags (avoid those with plastic), eggshells, yard trimmings, leaves, grass clippings, and plain paper napkins/towels.",
	},
	{
		pattern: regexp.MustCompile(`(?i)(what.*(can't|can not|cannot|shouldn't|should not).*compost|not.*in.*compost|meat|fish|bones|dairy|oily|greasy|plastic|synthetic|chemically-treated|glossy|colored\s*paper)`),
		answer:  "❌ Avoid composting: meat, fish, bones, dairy products, oily or greasy food waste, plastics or synthetic materials, chemically-treated wood, and glossy or colored paper.",
	},
	{
		pattern: regexp.MustCompile(`(?i)(tip|tips|advice|how).*season|summer|winter|spring|fall|autumn`),
		answer:  "🍂 Composting Tips by Season:\n- Summer: Stir pile weekly; manage smell with extra 'browns' like leaves.\n- Winter: Composting slows; keep adding scraps but cover them well.\n- Spring: Perfect time to use finished compost in your garden.\n- Fall: Fallen leaves are carbon gold—mix them with kitchen scraps!",
	},
	{
		pattern: regexp.MustCompile(`(?i)(type|types|quality|qualities|green.*brown|balance|ratio|nitrogen|carbon)`),
		answer:  "🧪 Compost Types & Balance: Green materials (nitrogen) include food scraps & grass. Brown materials (carbon) include leaves, paper, straw. Aim for a 2:1 ratio of browns to greens for best results!",
	},
	{
		pattern: regexp.MustCompile(`(?i)(problem|issue|problem:|smell|smells|bad|not breaking down|too dry|too wet|pest|flies|rodent|animal|slow)`),
		answer:  "🐛 Common Compost Problems:\n- Smells bad? Likely too much green/wet. Add more browns (leaves/paper) and turn the pile.\n- Not breaking down? May be too dry/cold. Add moisture and mix more.\n- Attracting pests? Avoid meat/dairy and always cover food scraps with browns.",
	},
	{
		pattern: regexp.MustCompile(`(?i)citrus|orange|lemon|fruit`),
		answer:  "Citrus peels and other fruit scraps are okay in moderation—keep them under 10% of your total compost and chop up large pieces for faster breakdown.",
	},
	{
		pattern: regexp.MustCompile(`(?i)(how.*store|store.*compost|keep.*compost|storage|odor|smell)`),
		answer:  "Store kitchen scraps in a sealed container to trap odors, and transfer them to your outdoor bin regularly. Add 'browns' like paper or leaves to reduce odor.",
	},
	{
		pattern: regexp.MustCompile(`(?i)(leaf|leaves|grass|lawn|clippings)`),
		answer:  "Leaves and grass clippings are great carbon and nitrogen sources—shred and mix them with food scraps for a balanced compost.",
	},
	{
		pattern: regexp.MustCompile(`(?i)(why|benefit|advantages).*compost`),
		answer:  "Composting diverts waste from landfills and creates nutrient-rich soil for your garden. 🌱",
	},
}

// DefaultReply greets a user who has not asked anything yet.
const DefaultReply = "I'm CompostBot! Ask me about composting—what goes in, storage tips, balancing your compost pile, common problems, or how to keep it healthy year-round!"

// coachingReply answers questions no pattern recognizes.
const coachingReply = "Great question! CompostBot can help with:\n🟩 What goes in (or stays out of) compost\n🍂 How to store compost scraps\n🧪 The ideal brown/green balance\n🐛 Fixing common problems\nSeasonal composting tips, and more! Please ask anything about composting."

// lookup returns the canned answer for the first matching pattern.
func lookup(message string) (string, bool) {
	for _, e := range knowledge {
		if e.pattern.MatchString(message) {
			return e.answer, true
		}
	}
	return "", false
}
