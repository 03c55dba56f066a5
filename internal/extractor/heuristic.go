package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jt-go/internal/jt"
)

// HeuristicExtractor fills slots with regular expressions. It needs no network
// and is deterministic, which makes it the default backend and a fallback when
// no API key is configured. It understands the phrasings people actually type
// ("applied to X for Y", "phone screen with X tomorrow at 2pm") and nothing more.
type HeuristicExtractor struct{}

var _ jt.Extractor = HeuristicExtractor{}

// NewHeuristicExtractor creates a HeuristicExtractor.
func NewHeuristicExtractor() HeuristicExtractor {
	return HeuristicExtractor{}
}

func (HeuristicExtractor) Name() string { return "heuristic" }

var (
	// boundary ends a slot phrase.
	boundary = regexp.MustCompile(`(?i)\s+(?:for|as|in|on|at|with|via|through|about|regarding|and|but|from|today|tomorrow|yesterday|next|this|last|starting)\b|[,;!?()]|\.\s|\.$`)

	createAnchor   = regexp.MustCompile(`(?i)\b(?:applied|applying|apply|submitted(?:\s+(?:an?|my)\s+application)?|sent\s+(?:my\s+|an?\s+)?(?:resume|cv|application))\s+(?:(?:an?|my)\s+application\s+)?(to|at|with|for)\s+`)
	companyAnchor  = regexp.MustCompile(`(?i)\b(?:to|at|with)\s+`)
	roleAnchor     = regexp.MustCompile(`(?i)\b(?:for|as)\s+(?:an?\s+|the\s+)?`)
	locAnchor      = regexp.MustCompile(`(?i)\b(?:based\s+in|located\s+in|in)\s+`)
	remoteWord     = regexp.MustCompile(`(?i)\b(?:fully\s+)?remote\b`)
	salaryRe       = regexp.MustCompile(`(?i)\$?\d[\d,.]*\s*[kK]?\s*(?:-|–|to)\s*\$?\d[\d,.]*\s*[kK]?(?:\s*(?:usd|eur|gbp|/yr|/year|per year))?|\$\d[\d,.]*\s*[kK]?`)
	roleSuffix     = regexp.MustCompile(`(?i)\s+(?:role|position|job|opening)$`)
	leadingArticle = regexp.MustCompile(`(?i)^(?:the|a|an)\s+`)

	withAnchor       = regexp.MustCompile(`(?i)\bwith\s+`)
	atAnchor         = regexp.MustCompile(`(?i)\bat\s+`)
	companyBeforeKey = regexp.MustCompile(`([A-Z][\w&.'-]*(?:\s+[A-Z][\w&.'-]*)*)(?:'s)?\s+(?i:interview|phone\s+screen|onsite|on-site|screen|recruiter)`)

	interviewTypes = []struct {
		re   *regexp.Regexp
		name string
	}{
		{regexp.MustCompile(`(?i)\bphone\s+screen`), "phone screen"},
		{regexp.MustCompile(`(?i)\brecruiter\s+(?:call|screen|chat)`), "recruiter call"},
		{regexp.MustCompile(`(?i)\bsystem\s+design`), "system design"},
		{regexp.MustCompile(`(?i)\btechnical\b`), "technical"},
		{regexp.MustCompile(`(?i)\bbehaviou?ral\b`), "behavioral"},
		{regexp.MustCompile(`(?i)\bon-?site\b`), "onsite"},
		{regexp.MustCompile(`(?i)\bfinal\s+round\b`), "final round"},
		{regexp.MustCompile(`(?i)\bhiring\s+manager\b`), "hiring manager"},
	}

	clockRe = regexp.MustCompile(`(?i)(?:\b(?:at|@)\s+)?\b(?:(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?|([01]?\d|2[0-3]):([0-5]\d))\b|(?:\b(?:at)\s+)?\bnoon\b`)
)

// dateRules are tried in order; the first match wins and is cut from the text.
var dateRules = []struct {
	re      *regexp.Regexp
	resolve func(m []string, ref time.Time, future bool) (time.Time, bool)
}{
	{
		re: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		resolve: func(m []string, ref time.Time, _ bool) (time.Time, bool) {
			t, err := time.ParseInLocation("2006-01-02", m[0], ref.Location())
			return t, err == nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:\bon\s+)?\b(today|tonight|tomorrow|yesterday)\b`),
		resolve: func(m []string, ref time.Time, _ bool) (time.Time, bool) {
			switch strings.ToLower(m[1]) {
			case "tomorrow":
				return ref.AddDate(0, 0, 1), true
			case "yesterday":
				return ref.AddDate(0, 0, -1), true
			}
			return ref, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bin\s+(\d{1,2})\s+days?\b`),
		resolve: func(m []string, ref time.Time, _ bool) (time.Time, bool) {
			n, _ := strconv.Atoi(m[1])
			return ref.AddDate(0, 0, n), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:\bon\s+)?\b(?:(next|this|last|coming)\s+)?(monday|tuesday|tues|wednesday|thursday|thurs|friday|saturday|sunday)\b`),
		resolve: func(m []string, ref time.Time, future bool) (time.Time, bool) {
			wd, ok := parseWeekday(m[2])
			if !ok {
				return time.Time{}, false
			}
			switch strings.ToLower(m[1]) {
			case "last":
				return weekdayFrom(ref.AddDate(0, 0, -1), wd, false), true
			case "next", "coming":
				future = true
			}
			return weekdayFrom(ref, wd, future), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:\bon\s+)?\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`),
		resolve: func(m []string, ref time.Time, future bool) (time.Time, bool) {
			return monthDay(m[1], m[2], m[3], ref, future)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:\bon\s+)?\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?(?:,?\s+(\d{4}))?\b`),
		resolve: func(m []string, ref time.Time, future bool) (time.Time, bool) {
			return monthDay(m[2], m[1], m[3], ref, future)
		},
	},
	{
		re: regexp.MustCompile(`(?:\bon\s+)?\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`),
		resolve: func(m []string, ref time.Time, future bool) (time.Time, bool) {
			month, _ := strconv.Atoi(m[1])
			if month < 1 || month > 12 {
				return time.Time{}, false
			}
			return monthDay(time.Month(month).String()[:3], m[2], m[3], ref, future)
		},
	},
}

// Extract fills whatever slots of schema it can find in text.
func (HeuristicExtractor) Extract(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref := schema.Reference
	if ref.IsZero() {
		return nil, fmt.Errorf("heuristic extraction needs a reference time")
	}

	payload := jt.Payload{}
	rest := strings.TrimSpace(text)

	// Clock, then date, then salary: each cut keeps its digits away from the next pattern.
	if wants(schema, "time") {
		if clock, cut, ok := findClock(rest); ok {
			payload["time"] = clock
			rest = cut
		}
	}
	if wants(schema, "date") {
		future := schema.Intent == jt.IntentScheduleInterview
		if date, cut, ok := findDate(rest, ref, future); ok {
			payload["date"] = date.Format("2006-01-02")
			rest = cut
		}
	}
	if wants(schema, "salary_range") {
		if loc := salaryRe.FindStringIndex(rest); loc != nil {
			payload["salary_range"] = strings.TrimSpace(rest[loc[0]:loc[1]])
			rest = cutSpan(rest, loc)
		}
	}

	switch schema.Intent {
	case jt.IntentCreateApplication:
		fillApplication(payload, rest)
	case jt.IntentScheduleInterview:
		fillInterview(payload, rest)
	}
	return payload, nil
}

func fillApplication(p jt.Payload, text string) {
	var company, role, tail string
	if m := createAnchor.FindStringSubmatchIndex(text); m != nil {
		after := text[m[1]:]
		if strings.EqualFold(text[m[2]:m[3]], "for") {
			// "applied for <role> at <company>"
			role, tail = phrase(after)
			if loc := companyAnchor.FindStringIndex(tail); loc != nil {
				company, _ = phrase(tail[loc[1]:])
			}
		} else {
			company, tail = phrase(after)
			if loc := roleAnchor.FindStringIndex(tail); loc != nil {
				role, _ = phrase(tail[loc[1]:])
			}
		}
	} else if loc := companyAnchor.FindStringIndex(text); loc != nil {
		company, tail = phrase(text[loc[1]:])
		if loc := roleAnchor.FindStringIndex(tail); loc != nil {
			role, _ = phrase(tail[loc[1]:])
		}
	}

	setIf(p, "company", company)
	setIf(p, "role", roleSuffix.ReplaceAllString(role, ""))

	if remoteWord.MatchString(text) {
		p["location"] = "Remote"
	} else if loc := locAnchor.FindStringIndex(text); loc != nil {
		where, _ := phrase(text[loc[1]:])
		setIf(p, "location", where)
	}
}

func fillInterview(p jt.Payload, text string) {
	for _, it := range interviewTypes {
		if it.re.MatchString(text) {
			p["interview_type"] = it.name
			break
		}
	}

	var with, at string
	if loc := withAnchor.FindStringIndex(text); loc != nil {
		with, _ = phrase(text[loc[1]:])
	}
	if loc := atAnchor.FindStringIndex(text); loc != nil {
		at, _ = phrase(text[loc[1]:])
	}

	switch {
	case with != "" && at != "":
		// "with Jane at Google": the person is the interviewer.
		p["company"] = at
		p["interviewer"] = with
	case with != "":
		p["company"] = with
	case at != "":
		p["company"] = at
	default:
		if m := companyBeforeKey.FindStringSubmatch(text); m != nil {
			p["company"] = strings.TrimSpace(m[1])
		}
	}
}

// phrase returns the words up to the next boundary and the remaining text.
func phrase(s string) (string, string) {
	s = strings.TrimSpace(s)
	end := len(s)
	rest := ""
	if loc := boundary.FindStringIndex(s); loc != nil {
		end = loc[0]
		rest = s[loc[0]:]
	}
	out := strings.TrimSpace(leadingArticle.ReplaceAllString(strings.TrimSpace(s[:end]), ""))
	return strings.TrimRight(out, ".:"), rest
}

func findClock(s string) (string, string, bool) {
	m := clockRe.FindStringSubmatchIndex(s)
	if m == nil {
		return "", s, false
	}
	sub := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}

	var hour, minute int
	switch {
	case sub(3) != "":
		hour, _ = strconv.Atoi(sub(1))
		minute, _ = strconv.Atoi(sub(2))
		if hour < 1 || hour > 12 {
			return "", s, false
		}
		hour %= 12
		if strings.EqualFold(sub(3), "p") {
			hour += 12
		}
	case sub(4) != "":
		hour, _ = strconv.Atoi(sub(4))
		minute, _ = strconv.Atoi(sub(5))
	default:
		hour = 12
	}
	if minute > 59 {
		return "", s, false
	}
	clock := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Format("3:04 PM")
	return clock, cutSpan(s, m[:2]), true
}

func findDate(s string, ref time.Time, future bool) (time.Time, string, bool) {
	for _, rule := range dateRules {
		idx := rule.re.FindStringSubmatchIndex(s)
		if idx == nil {
			continue
		}
		groups := make([]string, len(idx)/2)
		for i := range groups {
			if idx[2*i] >= 0 {
				groups[i] = s[idx[2*i]:idx[2*i+1]]
			}
		}
		if d, ok := rule.resolve(groups, ref, future); ok {
			return d, cutSpan(s, idx[:2]), true
		}
	}
	return time.Time{}, s, false
}

func cutSpan(s string, loc []int) string {
	return strings.Join(strings.Fields(s[:loc[0]]+" "+s[loc[1]:]), " ")
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), s[:3]) {
			return d, true
		}
	}
	return 0, false
}

// weekdayFrom returns the next occurrence of wd after ref when future is set,
// otherwise the most recent one on or before ref.
func weekdayFrom(ref time.Time, wd time.Weekday, future bool) time.Time {
	diff := int(wd - ref.Weekday())
	if future {
		if diff <= 0 {
			diff += 7
		}
	} else if diff > 0 {
		diff -= 7
	}
	return ref.AddDate(0, 0, diff)
}

// monthDay builds a date from month and day names. Without a year, it picks the
// nearest year that keeps the date on the expected side of ref.
func monthDay(monthName, dayStr, yearStr string, ref time.Time, future bool) (time.Time, bool) {
	t, err := time.Parse("Jan", strings.ToUpper(monthName[:1])+strings.ToLower(monthName[1:3]))
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := ref.Year()
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
	}

	d := time.Date(year, t.Month(), day, 0, 0, 0, 0, ref.Location())
	if d.Day() != day {
		return time.Time{}, false // Feb 30 and friends
	}
	if yearStr == "" {
		today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
		if future && d.Before(today) {
			d = d.AddDate(1, 0, 0)
		} else if !future && d.After(today) {
			d = d.AddDate(-1, 0, 0)
		}
	}
	return d, true
}

func wants(schema jt.Schema, name string) bool {
	for _, f := range schema.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func setIf(p jt.Payload, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		p[key] = value
	}
}
