package intent

import "strings"

// Slots is the argument bag extracted from an utterance. Values may be
// empty; the dispatcher treats an empty required slot as "ask the
// user", never as a failure.
type Slots map[string]string

func (s Slots) Get(name string) string { return s[name] }

// ExtractSlots pulls named arguments out of a normalized utterance by
// slicing around marker words. It always returns a bag with every slot
// the category expects, possibly empty-valued.
func ExtractSlots(cat Category, text string) Slots {
	slots := Slots{}

	switch cat {
	case CategoryMusic:
		q := text
		platform := "spotify"
		if strings.Contains(q, "youtube") {
			platform = "youtube"
		}
		for _, m := range []string{"on youtube", "on spotify", "youtube", "spotify"} {
			q = strings.Replace(q, m, "", 1)
		}
		slots["song"] = strings.TrimSpace(after(q, "play"))
		slots["platform"] = platform
		slots["control"] = musicControl(text)

	case CategorySearch:
		q := text
		platform := "google"
		for _, site := range []string{"youtube", "spotify", "google"} {
			if strings.Contains(q, site) {
				platform = site
				break
			}
		}
		for _, m := range []string{"search for", "look up", "search", "find", "on youtube", "on google", "on spotify", "youtube", "google", "spotify"} {
			q = strings.Replace(q, m, "", 1)
		}
		slots["query"] = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(q), " on"))
		slots["platform"] = platform

	case CategoryTyping:
		content := after(text, "type")
		if content == text {
			content = after(text, "write")
		}
		slots["content"] = strings.TrimSpace(content)

	case CategoryResearch:
		topic := text
		for _, m := range []string{"research", "investigate", "study"} {
			topic = strings.Replace(topic, m, "", 1)
		}
		slots["topic"] = strings.TrimSpace(topic)

	case CategoryComparePrice:
		product := text
		if idx := strings.Index(product, "for"); idx >= 0 {
			product = product[idx+len("for"):]
		} else {
			for _, m := range []string{"compare prices of", "compare price of", "compare prices", "compare price", "price check"} {
				product = strings.Replace(product, m, "", 1)
			}
		}
		slots["product"] = strings.TrimSpace(product)

	case CategoryCompareFlight:
		dep, arr := cityPair(text)
		slots["departure"] = dep
		slots["arrival"] = arr

	case CategoryWakeWord:
		slots["word"] = strings.TrimSpace(after(text, "to"))

	case CategoryVoice:
		slots["voice"] = strings.TrimSpace(after(text, "change voice to"))

	case CategorySystem:
		slots["direction"] = volumeDirection(text)
		slots["app"] = appTarget(text)

	case CategoryFiles:
		q := text
		for _, m := range []string{"search files for", "search files", "find file", "find", "search"} {
			q = strings.Replace(q, m, "", 1)
		}
		slots["query"] = strings.TrimSpace(q)
	}

	return slots
}

// after returns the text following the first occurrence of marker, or
// the input unchanged when the marker is absent.
func after(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return text
	}
	return text[idx+len(marker):]
}

// cityPair slices the text between "from" and "to" for the departure,
// and takes the first word after "to" for the arrival. Either side may
// come back empty; the flight flow asks for whatever is missing.
func cityPair(text string) (dep, arr string) {
	fromIdx := strings.Index(text, "from")
	toIdx := strings.Index(text, " to ")
	if fromIdx < 0 || toIdx < 0 || toIdx < fromIdx {
		return "", ""
	}
	dep = strings.TrimSpace(text[fromIdx+len("from"):toIdx])
	rest := strings.Fields(strings.TrimSpace(text[toIdx+len(" to "):]))
	if len(rest) > 0 {
		arr = rest[0]
	}
	return dep, arr
}

func musicControl(text string) string {
	switch {
	case strings.Contains(text, "pause") || strings.Contains(text, "stop music") || strings.Contains(text, "stop song"):
		return "pause"
	case strings.Contains(text, "next"):
		return "next"
	case strings.Contains(text, "previous") || strings.Contains(text, "back"):
		return "previous"
	case strings.Contains(text, "play"):
		return "play"
	}
	return ""
}

func volumeDirection(text string) string {
	if !strings.Contains(text, "volume") {
		return ""
	}
	switch {
	case strings.Contains(text, "up") || strings.Contains(text, "increase"):
		return "up"
	case strings.Contains(text, "down") || strings.Contains(text, "decrease") || strings.Contains(text, "reduce"):
		return "down"
	}
	return ""
}

// appTarget extracts the application name for open/close commands and
// tags it with the requested action.
func appTarget(text string) string {
	for _, verb := range []string{"open ", "launch ", "start ", "close ", "exit ", "quit "} {
		if idx := strings.Index(text, verb); idx >= 0 {
			return strings.TrimSpace(text[idx+len(verb):])
		}
	}
	return ""
}

// AppAction reports whether a system-category utterance opens or
// closes an application.
func AppAction(text string) string {
	switch {
	case strings.Contains(text, "open ") || strings.Contains(text, "launch ") || strings.Contains(text, "start "):
		return "open"
	case strings.Contains(text, "close ") || strings.Contains(text, "exit ") || strings.Contains(text, "quit "):
		return "close"
	}
	return ""
}
