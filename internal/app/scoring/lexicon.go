package scoring

type lexEntry struct {
	polarity     float64
	subjectivity float64
}

// lexicon maps lowercase words to their polarity and subjectivity. Values
// follow the usual adjective lexicons used for English review text.
var lexicon = map[string]lexEntry{
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"excellent":     {1.0, 1.0},
	"amazing":       {0.6, 0.9},
	"awesome":       {1.0, 1.0},
	"fantastic":     {0.4, 0.9},
	"perfect":       {1.0, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"nice":          {0.6, 1.0},
	"love":          {0.5, 0.6},
	"loved":         {0.7, 0.8},
	"like":          {0.2, 0.3},
	"liked":         {0.4, 0.5},
	"happy":         {0.8, 1.0},
	"glad":          {0.5, 1.0},
	"useful":        {0.3, 0.0},
	"helpful":       {0.5, 0.4},
	"reliable":      {0.4, 0.5},
	"fast":          {0.2, 0.6},
	"smooth":        {0.4, 0.6},
	"solid":         {0.3, 0.4},
	"impressive":    {1.0, 1.0},
	"beautiful":     {0.85, 1.0},
	"cool":          {0.35, 0.65},
	"fun":           {0.3, 0.2},
	"easy":          {0.43, 0.83},
	"interesting":   {0.5, 0.5},
	"important":     {0.4, 1.0},
	"valuable":      {0.4, 0.5},
	"worth":         {0.3, 0.1},
	"recommend":     {0.4, 0.5},
	"satisfied":     {0.5, 1.0},
	"wonderful":     {1.0, 1.0},
	"brilliant":     {0.9, 1.0},
	"favorite":      {0.5, 1.0},
	"favourite":     {0.5, 1.0},
	"clean":         {0.37, 0.69},
	"durable":       {0.4, 0.5},
	"affordable":    {0.3, 0.5},
	"cheap":         {0.4, 0.7},
	"innovative":    {0.5, 0.6},
	"intuitive":     {0.4, 0.6},
	"powerful":      {0.3, 1.0},
	"bright":        {0.7, 0.9},
	"sharp":         {0.1, 0.5},
	"responsive":    {0.3, 0.5},
	"stable":        {0.3, 0.4},
	"secure":        {0.4, 0.6},
	"long":          {-0.05, 0.4},
	"thanks":        {0.2, 0.2},
	"thank":         {0.2, 0.2},
	"agree":         {0.2, 0.4},
	"right":         {0.29, 0.54},
	"true":          {0.35, 0.65},
	"correct":       {0.2, 0.4},
	"bad":           {-0.7, 0.67},
	"terrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"worst":         {-1.0, 1.0},
	"worse":         {-0.4, 0.6},
	"poor":          {-0.4, 0.6},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.9, 0.7},
	"annoying":      {-0.8, 0.9},
	"disappointing": {-0.6, 0.7},
	"disappointed":  {-0.75, 0.75},
	"useless":       {-0.5, 0.0},
	"slow":          {-0.3, 0.39},
	"expensive":     {-0.5, 0.7},
	"overpriced":    {-0.6, 0.7},
	"broken":        {-0.4, 0.4},
	"buggy":         {-0.5, 0.6},
	"unreliable":    {-0.5, 0.6},
	"boring":        {-1.0, 1.0},
	"ugly":          {-0.7, 1.0},
	"stupid":        {-0.8, 1.0},
	"sad":           {-0.5, 1.0},
	"angry":         {-0.5, 1.0},
	"frustrating":   {-0.4, 0.7},
	"frustrated":    {-0.7, 0.4},
	"difficult":     {-0.5, 1.0},
	"hard":          {-0.29, 0.54},
	"weak":          {-0.375, 0.625},
	"fragile":       {-0.3, 0.5},
	"bloated":       {-0.5, 0.6},
	"confusing":     {-0.3, 0.7},
	"wrong":         {-0.5, 0.9},
	"fake":          {-0.5, 1.0},
	"unfortunately": {-0.5, 1.0},
	"problem":       {-0.3, 0.5},
	"problems":      {-0.3, 0.5},
	"issue":         {-0.2, 0.4},
	"issues":        {-0.2, 0.4},
	"meh":           {-0.2, 0.6},
	"mediocre":      {-0.4, 0.6},
	"outdated":      {-0.3, 0.5},
	"laggy":         {-0.5, 0.6},
	"crappy":        {-0.8, 0.8},
	"garbage":       {-0.8, 0.8},
	"trash":         {-0.7, 0.8},
	"sucks":         {-0.6, 0.8},
	"big":           {0.0, 0.1},
	"new":           {0.14, 0.45},
	"old":           {0.1, 0.2},
	"small":         {-0.25, 0.4},
	"huge":          {0.4, 0.9},
	"real":          {0.2, 0.3},
	"simple":        {0.0, 0.36},
	"obvious":       {0.0, 0.5},
	"possible":      {0.0, 1.0},
	"probably":      {0.0, 0.5},
	"maybe":         {0.0, 0.5},
	"honestly":      {0.6, 0.9},
	"personally":    {0.0, 0.7},
	"feel":          {0.0, 0.5},
	"think":         {0.0, 0.4},
	"wish":          {0.0, 0.5},
	"want":          {0.1, 0.3},
	"need":          {0.0, 0.2},
	"sure":          {0.5, 0.89},
	"definitely":    {0.0, 0.5},
}

// intensifiers multiply the polarity and subjectivity of the next
// sentiment-bearing word.
var intensifiers = map[string]float64{
	"very":        1.3,
	"really":      1.2,
	"extremely":   1.5,
	"super":       1.4,
	"so":          1.2,
	"too":         1.2,
	"incredibly":  1.5,
	"absolutely":  1.4,
	"totally":     1.3,
	"quite":       1.1,
	"pretty":      1.1,
	"fairly":      0.9,
	"somewhat":    0.7,
	"slightly":    0.5,
	"barely":      0.4,
	"kinda":       0.8,
	"kind":        0.9,
	"highly":      1.4,
	"insanely":    1.5,
}

var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nor":     true,
	"without": true,
	"hardly":  true,
	"cannot":  true,
	"nothing": true,
}

// negationFactor is applied to the polarity of a negated word: "not good"
// is mildly negative rather than the opposite of good.
const negationFactor = -0.5
