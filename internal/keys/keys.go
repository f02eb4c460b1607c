// Package keys is the table of named key codes used in gesture declarations.
//
// Codes are X11 keysyms, so letters and digits use their
// lowercase ASCII values and special keys live above 0xff00.
package keys

import (
	"sort"
	"strconv"
	"strings"
)

// Key codes.
const (
	Backspace    = 65288
	Tab          = 65289
	LineFeed     = 65290
	Clear        = 65291
	Enter        = 65293
	Pause        = 65299
	ScrollLock   = 65300
	SysReq       = 65301
	Escape       = 65307
	Space        = 32
	Home         = 65360
	Left         = 65361
	Up           = 65362
	Right        = 65363
	Down         = 65364
	PageUp       = 65365
	PageDown     = 65366
	End          = 65367
	Begin        = 65368
	Delete       = 65535
	Select       = 65376
	Print        = 65377
	Execute      = 65378
	Insert       = 65379
	Undo         = 65381
	Redo         = 65382
	Menu         = 65383
	Find         = 65384
	Cancel       = 65385
	Help         = 65386
	Break        = 65387
	ScriptSwitch = 65406
	Function     = 65490
	NumLock      = 65407
	NumSpace     = 65408
	NumTab       = 65417
	NumEnter     = 65421
	NumF1        = 65425
	NumF2        = 65426
	NumF3        = 65427
	NumF4        = 65428
	NumHome      = 65429
	NumLeft      = 65430
	NumUp        = 65431
	NumRight     = 65432
	NumDown      = 65433
	NumPageUp    = 65434
	NumPageDown  = 65435
	NumEnd       = 65436
	NumBegin     = 65437
	NumInsert    = 65438
	NumDelete    = 65439
	NumEqual     = 65469
	NumMultiply  = 65450
	NumAdd       = 65451
	NumSeparator = 65452
	NumSubtract  = 65453
	NumDecimal   = 65454
	NumDivide    = 65455
	Num0         = 65456
	Num1         = 65457
	Num2         = 65458
	Num3         = 65459
	Num4         = 65460
	Num5         = 65461
	Num6         = 65462
	Num7         = 65463
	Num8         = 65464
	Num9         = 65465
	F1           = 65470
	F2           = 65471
	F3           = 65472
	F4           = 65473
	F5           = 65474
	F6           = 65475
	F7           = 65476
	F8           = 65477
	F9           = 65478
	F10          = 65479
	F11          = 65480
	F12          = 65481
	F13          = 65482
	F14          = 65483
	F15          = 65484
	F16          = 65485
	F17          = 65486
	F18          = 65487
	F19          = 65488
	F20          = 65489
	LShift       = 65505
	RShift       = 65506
	LCtrl        = 65507
	RCtrl        = 65508
	CapsLock     = 65509
	LMeta        = 65511
	RMeta        = 65512
	LAlt         = 65513
	RAlt         = 65514
	LWindows     = 65515
	RWindows     = 65516
	LCommand     = 65517
	RCommand     = 65518
	LOption      = 65519
	ROption      = 65520
	Exclamation  = 33
	DoubleQuote  = 34
	Pound        = 35
	Dollar       = 36
	Percent      = 37
	Ampersand    = 38
	Apostrophe   = 39
	ParenLeft    = 40
	ParenRight   = 41
	Asterisk     = 42
	Plus         = 43
	Comma        = 44
	Minus        = 45
	Period       = 46
	Slash        = 47
	Digit0       = 48
	Digit1       = 49
	Digit2       = 50
	Digit3       = 51
	Digit4       = 52
	Digit5       = 53
	Digit6       = 54
	Digit7       = 55
	Digit8       = 56
	Digit9       = 57
	Colon        = 58
	Semicolon    = 59
	Less         = 60
	Equal        = 61
	Greater      = 62
	Question     = 63
	At           = 64
	BracketLeft  = 91
	Backslash    = 92
	BracketRight = 93
	AsciiCircum  = 94
	Underscore   = 95
	QuoteLeft    = 96
	A            = 97
	B            = 98
	C            = 99
	D            = 100
	E            = 101
	F            = 102
	G            = 103
	H            = 104
	I            = 105
	J            = 106
	K            = 107
	L            = 108
	M            = 109
	N            = 110
	O            = 111
	P            = 112
	Q            = 113
	R            = 114
	S            = 115
	T            = 116
	U            = 117
	V            = 118
	W            = 119
	X            = 120
	Y            = 121
	Z            = 122
	BraceLeft    = 123
	Bar          = 124
	BraceRight   = 125
	AsciiTilde   = 126
)

// Entry is one row of the table.
type Entry struct {
	Name string
	Code int
}

var table = []Entry{
	{"BACKSPACE", Backspace},
	{"TAB", Tab},
	{"LINEFEED", LineFeed},
	{"CLEAR", Clear},
	{"ENTER", Enter},
	{"PAUSE", Pause},
	{"SCROLLLOCK", ScrollLock},
	{"SYSREQ", SysReq},
	{"ESCAPE", Escape},
	{"SPACE", Space},
	{"HOME", Home},
	{"LEFT", Left},
	{"UP", Up},
	{"RIGHT", Right},
	{"DOWN", Down},
	{"PAGEUP", PageUp},
	{"PAGEDOWN", PageDown},
	{"END", End},
	{"BEGIN", Begin},
	{"DELETE", Delete},
	{"SELECT", Select},
	{"PRINT", Print},
	{"EXECUTE", Execute},
	{"INSERT", Insert},
	{"UNDO", Undo},
	{"REDO", Redo},
	{"MENU", Menu},
	{"FIND", Find},
	{"CANCEL", Cancel},
	{"HELP", Help},
	{"BREAK", Break},
	{"SCRIPTSWITCH", ScriptSwitch},
	{"FUNCTION", Function},
	{"NUMLOCK", NumLock},
	{"NUM_SPACE", NumSpace},
	{"NUM_TAB", NumTab},
	{"NUM_ENTER", NumEnter},
	{"NUM_F1", NumF1},
	{"NUM_F2", NumF2},
	{"NUM_F3", NumF3},
	{"NUM_F4", NumF4},
	{"NUM_HOME", NumHome},
	{"NUM_LEFT", NumLeft},
	{"NUM_UP", NumUp},
	{"NUM_RIGHT", NumRight},
	{"NUM_DOWN", NumDown},
	{"NUM_PAGE_UP", NumPageUp},
	{"NUM_PAGE_DOWN", NumPageDown},
	{"NUM_END", NumEnd},
	{"NUM_BEGIN", NumBegin},
	{"NUM_INSERT", NumInsert},
	{"NUM_DELETE", NumDelete},
	{"NUM_EQUAL", NumEqual},
	{"NUM_MULTIPLY", NumMultiply},
	{"NUM_ADD", NumAdd},
	{"NUM_SEPARATOR", NumSeparator},
	{"NUM_SUBTRACT", NumSubtract},
	{"NUM_DECIMAL", NumDecimal},
	{"NUM_DIVIDE", NumDivide},
	{"NUM_0", Num0},
	{"NUM_1", Num1},
	{"NUM_2", Num2},
	{"NUM_3", Num3},
	{"NUM_4", Num4},
	{"NUM_5", Num5},
	{"NUM_6", Num6},
	{"NUM_7", Num7},
	{"NUM_8", Num8},
	{"NUM_9", Num9},
	{"F1", F1},
	{"F2", F2},
	{"F3", F3},
	{"F4", F4},
	{"F5", F5},
	{"F6", F6},
	{"F7", F7},
	{"F8", F8},
	{"F9", F9},
	{"F10", F10},
	{"F11", F11},
	{"F12", F12},
	{"F13", F13},
	{"F14", F14},
	{"F15", F15},
	{"F16", F16},
	{"F17", F17},
	{"F18", F18},
	{"F19", F19},
	{"F20", F20},
	{"LSHIFT", LShift},
	{"RSHIFT", RShift},
	{"LCTRL", LCtrl},
	{"RCTRL", RCtrl},
	{"CAPSLOCK", CapsLock},
	{"LMETA", LMeta},
	{"RMETA", RMeta},
	{"LALT", LAlt},
	{"RALT", RAlt},
	{"LWINDOWS", LWindows},
	{"RWINDOWS", RWindows},
	{"LCOMMAND", LCommand},
	{"RCOMMAND", RCommand},
	{"LOPTION", LOption},
	{"ROPTION", ROption},
	{"EXCLAMATION", Exclamation},
	{"DOUBLEQUOTE", DoubleQuote},
	{"POUND", Pound},
	{"DOLLAR", Dollar},
	{"PERCENT", Percent},
	{"AMPERSAND", Ampersand},
	{"APOSTROPHE", Apostrophe},
	{"PARENLEFT", ParenLeft},
	{"PARENRIGHT", ParenRight},
	{"ASTERISK", Asterisk},
	{"PLUS", Plus},
	{"COMMA", Comma},
	{"MINUS", Minus},
	{"PERIOD", Period},
	{"SLASH", Slash},
	{"0", Digit0},
	{"1", Digit1},
	{"2", Digit2},
	{"3", Digit3},
	{"4", Digit4},
	{"5", Digit5},
	{"6", Digit6},
	{"7", Digit7},
	{"8", Digit8},
	{"9", Digit9},
	{"COLON", Colon},
	{"SEMICOLON", Semicolon},
	{"LESS", Less},
	{"EQUAL", Equal},
	{"GREATER", Greater},
	{"QUESTION", Question},
	{"AT", At},
	{"BRACKETLEFT", BracketLeft},
	{"BACKSLASH", Backslash},
	{"BRACKETRIGHT", BracketRight},
	{"ASCIICIRCUM", AsciiCircum},
	{"UNDERSCORE", Underscore},
	{"QUOTELEFT", QuoteLeft},
	{"A", A},
	{"B", B},
	{"C", C},
	{"D", D},
	{"E", E},
	{"F", F},
	{"G", G},
	{"H", H},
	{"I", I},
	{"J", J},
	{"K", K},
	{"L", L},
	{"M", M},
	{"N", N},
	{"O", O},
	{"P", P},
	{"Q", Q},
	{"R", R},
	{"S", S},
	{"T", T},
	{"U", U},
	{"V", V},
	{"W", W},
	{"X", X},
	{"Y", Y},
	{"Z", Z},
	{"BRACELEFT", BraceLeft},
	{"BAR", Bar},
	{"BRACERIGHT", BraceRight},
	{"ASCIITILDE", AsciiTilde},
}

var (
	byName = make(map[string]int, len(table))
	byCode = make(map[int]string, len(table))
)

func init() {
	for _, e := range table {
		byName[e.Name] = e.Code
		if _, ok := byCode[e.Code]; !ok {
			byCode[e.Code] = e.Name
		}
	}
}

// Lookup returns the code for a key name. Names are case-insensitive.
// A name of the form "#<code>" is accepted for keys missing from the table.
func Lookup(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if rest, ok := strings.CutPrefix(name, "#"); ok {
		code, err := strconv.Atoi(rest)
		if err != nil || code < 0 {
			return 0, false
		}
		return code, true
	}
	code, ok := byName[strings.ToUpper(name)]
	return code, ok
}

// Name returns the table name for code, or "#<code>" if it has none.
func Name(code int) string {
	if name, ok := byCode[code]; ok {
		return name
	}
	return "#" + strconv.Itoa(code)
}

// All returns a copy of the table sorted by name.
func All() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
