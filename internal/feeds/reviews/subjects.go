package reviews

type Group string

const (
	GroupProgramming  Group = "programming"
	GroupQuant        Group = "quant"
	GroupResearch     Group = "research"
	GroupLab          Group = "lab"
	GroupBusiness     Group = "business"
	GroupPresentation Group = "presentation"
	GroupWriting      Group = "writing"
	GroupGeneral      Group = "general"
	GroupEditing      Group = "editing"
)

type Subject struct {
	Label  string
	Group  Group
	Weight float64
}

var Subjects = []Subject{
	{"Computer Science", GroupProgramming, 6},
	{"Software Engineering", GroupProgramming, 3},
	{"Data Science", GroupProgramming, 3},
	{"Statistics", GroupQuant, 4},
	{"Economics", GroupQuant, 4},
	{"Finance", GroupQuant, 4},
	{"Accounting", GroupQuant, 3},
	{"Psychology", GroupResearch, 6},
	{"Sociology", GroupResearch, 4},
	{"Public Health", GroupResearch, 4},
	{"Education", GroupResearch, 3},
	{"Nursing", GroupLab, 7},
	{"Biology", GroupLab, 4},
	{"Chemistry", GroupLab, 3},
	{"Business Management", GroupBusiness, 7},
	{"Marketing", GroupBusiness, 5},
	{"Pitch Deck", GroupPresentation, 3},
	{"Conference Slides", GroupPresentation, 2},
	{"English Literature", GroupWriting, 4},
	{"History", GroupWriting, 4},
	{"Law", GroupWriting, 3},
	{"Political Science", GroupGeneral, 3},
	{"General Studies", GroupGeneral, 2},
	{"Proofreading", GroupEditing, 3},
	{"Thesis Editing", GroupEditing, 2},
}

type vocabulary struct {
	nouns     []string // first entry is the default
	terms     []string
	templates []string // "%s" is the work noun
}

var vocab = map[Group]vocabulary{
	GroupProgramming: {
		nouns: []string{"project", "assignment", "code", "lab"},
		terms: []string{"unit tests included", "clean Python", "commented Java", "SQL queries", "Big-O analysis"},
		templates: []string{
			"The %s compiled on the first try and the logic was explained line by line.",
			"Got my %s back early and every test case passed.",
			"Really clear %s, my instructor asked who helped me structure it.",
			"They fixed the bugs in my %s and walked me through why it broke.",
		},
	},
	GroupQuant: {
		nouns: []string{"problem set", "assignment", "analysis", "homework"},
		terms: []string{"regression output", "Excel model", "SPSS tables", "NPV workings", "hypothesis tests"},
		templates: []string{
			"Every step of the %s was shown, not just the final numbers.",
			"The %s matched the rubric exactly and the calculations checked out.",
			"Struggled with this %s for a week, they sorted it in two days.",
			"Neat, well labelled %s and the interpretation made sense.",
		},
	},
	GroupResearch: {
		nouns: []string{"paper", "literature review", "research paper", "report"},
		terms: []string{"APA 7", "peer-reviewed sources", "methods section", "annotated bibliography", "thematic analysis"},
		templates: []string{
			"The %s used current sources and the argument held together.",
			"My %s finally had a proper structure, got a strong grade on it.",
			"Well researched %s, the references were all real and checkable.",
			"Asked for a revision on the %s and it came back the same day.",
		},
	},
	GroupLab: {
		nouns: []string{"lab report", "care plan", "case study", "report"},
		terms: []string{"PICOT question", "discussion of error", "evidence-based practice", "data tables", "Harvard referencing"},
		templates: []string{
			"The %s followed the template my course uses to the letter.",
			"Clear and accurate %s, the discussion section was excellent.",
			"Needed the %s fast before a clinical shift and it arrived on time.",
			"Tutor said the %s was one of the better ones in the class.",
		},
	},
	GroupBusiness: {
		nouns: []string{"case study", "report", "business plan", "essay"},
		terms: []string{"SWOT analysis", "PESTLE", "Porter's five forces", "financial projections", "executive summary"},
		templates: []string{
			"The %s read like something a consultant would hand in.",
			"Strong %s with practical recommendations, not just theory.",
			"Good %s, the frameworks were applied properly to the company.",
			"Turned around my %s in a tight window and it was solid.",
		},
	},
	GroupPresentation: {
		nouns: []string{"slides", "deck", "presentation", "slide deck"},
		terms: []string{"speaker notes", "clean charts", "brand colours", "16:9 layout", "one idea per slide"},
		templates: []string{
			"The %s looked professional and were easy to present from.",
			"Loved the design of the %s, nothing cluttered.",
			"My %s got compliments from the whole panel.",
			"They rebuilt my messy %s into something I was proud of.",
		},
	},
	GroupWriting: {
		nouns: []string{"essay", "paper", "assignment", "coursework"},
		terms: []string{"MLA format", "close reading", "primary sources", "strong thesis", "Chicago style"},
		templates: []string{
			"The %s had a clear thesis and flowed really well.",
			"Original %s, passed the plagiarism check with no issues.",
			"Writer understood exactly what the %s needed.",
			"Great %s, my grade went up a full band.",
		},
	},
	GroupGeneral: {
		nouns: []string{"assignment", "paper", "essay", "coursework"},
		terms: []string{"on-time delivery", "free revisions", "clear structure", "proper citations"},
		templates: []string{
			"The %s was delivered on time and followed all the instructions.",
			"Solid %s and support answered within minutes.",
			"Easy process and a well written %s at the end of it.",
			"Would order another %s without thinking twice.",
		},
	},
	GroupEditing: {
		nouns: []string{"draft", "thesis", "manuscript", "paper"},
		terms: []string{"tracked changes", "consistent tense", "tighter paragraphs", "reference cleanup"},
		templates: []string{
			"My %s reads so much better after the edit.",
			"Careful edit of the %s, they kept my voice intact.",
			"They caught mistakes in my %s I had missed for weeks.",
			"Fast turnaround on the %s with helpful comments in the margins.",
		},
	},
}

var openers = []string{
	"Honestly,",
	"Second time ordering and",
	"Was nervous at first but",
	"Quick update:",
	"Can't complain,",
	"Five weeks into the semester and",
	"Really relieved,",
}

var closers = []string{
	"Will be back next term.",
	"Thank you!",
	"Highly recommend.",
	"Worth every penny.",
	"Already told my classmates.",
	"Saved my semester.",
	"10/10.",
}
