package jt

import "regexp"

// Intent is the classified purpose of a user utterance.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentCreateApplication
	IntentScheduleInterview
	IntentStoreFact
)

func (i Intent) String() string {
	switch i {
	case IntentCreateApplication:
		return "create_application"
	case IntentScheduleInterview:
		return "schedule_interview"
	case IntentStoreFact:
		return "store_fact"
	default:
		return "unrecognized"
	}
}

// fillerPrefix lets rules anchored at the start of an utterance skip leading
// filler such as "I", "just", "I've" or "ok so".
const fillerPrefix = `^\s*(?:(?:i|i['’]?ve|i\s+have|i\s+just|just|so|ok|okay|well|today|yesterday|finally|also|and)[\s,]+)*`

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentRules is evaluated in order. Earlier rules win, so an utterance that both
// applies and mentions an interview is an application.
var intentRules = []intentRule{
	{
		intent: IntentCreateApplication,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)` + fillerPrefix + `(?:applied|apply(?:ing)?|submitted|sent)\s+(?:my\s+\w+\s+|an?\s+application\s+|application\s+)?(?:to|at|for|with)\b`),
			regexp.MustCompile(`(?i)` + fillerPrefix + `(?:new|add|log|track)\s+(?:an?\s+)?(?:job\s+)?application\b`),
			regexp.MustCompile(`(?i)\bapplication\s+(?:sent|submitted)\s+(?:to|at)\b`),
		},
	},
	{
		intent: IntentScheduleInterview,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:interview(?:ing)?|phone\s+screen(?:ing)?|screening\s+call|recruiter\s+(?:call|screen|chat)|on-?site|technical\s+(?:screen|round|interview)|final\s+round|hiring\s+manager\s+(?:call|chat|round))\b`),
		},
	},
	{
		intent: IntentStoreFact,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:remember|store|save|keep\s+in\s+mind)\b`),
			regexp.MustCompile(`(?i)^\s*note\s*[:\-]`),
			regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:make\s+a\s+)?note\s+(?:that|of)\b`),
		},
	},
}

// Classify maps an utterance to an intent. It is pure: the same text always
// yields the same intent, and unmatched text yields IntentUnrecognized.
func Classify(text string) Intent {
	for _, rule := range intentRules {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return rule.intent
			}
		}
	}
	return IntentUnrecognized
}
