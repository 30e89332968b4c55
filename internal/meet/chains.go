package meet

import (
	"time"

	"github.com/user/meetscribe/internal/selector"
)

// Candidate chains for the meeting UI. The platform reshuffles its markup
// regularly; when it does, extend the affected list here and nothing else.
// Order matters: the first resolving candidate wins.

// NameFieldChain locates the pre-join display-name input.
func NameFieldChain() selector.Chain {
	return selector.Chain{
		Action: "name field",
		Candidates: []selector.Candidate{
			{Desc: "placeholder your-name", By: selector.ByCSS, Query: `input[placeholder="Your name"]`},
			{Desc: "aria-label your-name", By: selector.ByCSS, Query: `input[aria-label="Your name"]`},
			{Desc: "any visible text input", By: selector.ByXPath, Query: `//input[@type='text']`},
		},
	}
}

// MicMuteChain locates the pre-join microphone toggle.
func MicMuteChain() selector.Chain {
	return selector.Chain{
		Action:  "mute microphone",
		Timeout: time.Second,
		Candidates: []selector.Candidate{
			{Desc: "aria-label turn off mic", By: selector.ByCSS, Query: `[aria-label*="Turn off microphone"]`},
			{Desc: "unmuted mic button", By: selector.ByCSS, Query: `[role="button"][aria-label*="microphone"][data-is-muted="false"]`},
			{Desc: "mic tooltip button", By: selector.ByXPath, Query: `//div[@role='button'][contains(@aria-label, 'microphone')]`},
		},
	}
}

// CamMuteChain locates the pre-join camera toggle.
func CamMuteChain() selector.Chain {
	return selector.Chain{
		Action:  "mute camera",
		Timeout: time.Second,
		Candidates: []selector.Candidate{
			{Desc: "aria-label turn off cam", By: selector.ByCSS, Query: `[aria-label*="Turn off camera"]`},
			{Desc: "unmuted cam button", By: selector.ByCSS, Query: `[role="button"][aria-label*="camera"][data-is-muted="false"]`},
			{Desc: "cam tooltip button", By: selector.ByXPath, Query: `//div[@role='button'][contains(@aria-label, 'camera')]`},
		},
	}
}

// JoinButtonChain locates the join / ask-to-join control.
func JoinButtonChain() selector.Chain {
	return selector.Chain{
		Action: "join button",
		Candidates: []selector.Candidate{
			{Desc: "join now span", By: selector.ByXPath, Query: `//span[text()='Join now']/ancestor::button`},
			{Desc: "ask to join span", By: selector.ByXPath, Query: `//span[text()='Ask to join']/ancestor::button`},
			{Desc: "aria-label join", By: selector.ByCSS, Query: `button[aria-label*="Join"]`},
			{Desc: "jsname join button", By: selector.ByCSS, Query: `button[jsname="Qx7uuf"]`},
		},
	}
}

// LeaveButtonChain locates the in-meeting leave control.
func LeaveButtonChain() selector.Chain {
	return selector.Chain{
		Action:  "leave button",
		Timeout: time.Second,
		Candidates: []selector.Candidate{
			{Desc: "aria-label leave call", By: selector.ByCSS, Query: `[aria-label="Leave call"]`},
			{Desc: "leave call span", By: selector.ByXPath, Query: `//span[text()='Leave call']/ancestor::button`},
			{Desc: "aria-label leave meeting", By: selector.ByCSS, Query: `[aria-label*="Leave meeting"]`},
		},
	}
}

// CaptionToggleChain locates the live-caption enable control.
func CaptionToggleChain() selector.Chain {
	return selector.Chain{
		Action: "enable captions",
		Candidates: []selector.Candidate{
			{Desc: "aria-label turn on captions", By: selector.ByCSS, Query: `[aria-label="Turn on captions"]`},
			{Desc: "captions span", By: selector.ByXPath, Query: `//span[text()='Turn on captions']/ancestor::button`},
			{Desc: "aria-label captions", By: selector.ByCSS, Query: `button[aria-label*="captions"]`},
		},
	}
}

// PeopleButtonChain locates the participants-panel toggle.
func PeopleButtonChain() selector.Chain {
	return selector.Chain{
		Action: "open participants panel",
		Candidates: []selector.Candidate{
			{Desc: "aria-label people", By: selector.ByCSS, Query: `[aria-label="People"]`},
			{Desc: "aria-label participants", By: selector.ByCSS, Query: `button[aria-label*="participant"]`},
			{Desc: "people icon button", By: selector.ByXPath, Query: `//button[contains(@aria-label, 'people')]`},
		},
	}
}

// ParticipantNamesChain lists the strategies for participant identity
// text. Exactly one strategy is used per snapshot (Driver.Texts picks the
// first that yields anything).
func ParticipantNamesChain() selector.Chain {
	return selector.Chain{
		Action: "participant names",
		Candidates: []selector.Candidate{
			{Desc: "roster item name span", By: selector.ByCSS, Query: `[role="list"] [role="listitem"] span.zWGUib`},
			{Desc: "participant id span", By: selector.ByCSS, Query: `[data-participant-id] span.zWGUib`},
			{Desc: "generic listitem text", By: selector.ByCSS, Query: `[aria-label="Participants"] [role="listitem"]`},
		},
	}
}
