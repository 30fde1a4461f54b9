package duplicate

import (
	"fmt"
	"html"
	"strings"
)

// Phrases holds the back-office wording of the audit notes.
type Phrases struct {
	Notification    string
	Transaction     string
	Channel         string
	PaidProcessing  string
	PaidVirtual     string
	Cancelled       string
	Processing      string
	DoublePayment   string
	ForOrder        string
	RegisteredUnder string
	PositiveCount   string
	CheckPanel      string
	MessageFor      string
	NotChangedTo    string
	PreviouslyPaid  string
	CurrentStatus   string
}

var phrasesByLang = map[string]Phrases{
	"en": {
		Notification:    "Dotpay send notification",
		Transaction:     "transaction number:",
		Channel:         "payment channel:",
		PaidProcessing:  "paid : processing",
		PaidVirtual:     "paid : completed (virtual product)",
		Cancelled:       "cancelled",
		Processing:      "processing",
		DoublePayment:   "DOUBLE PAYMENT !",
		ForOrder:        "for the order no:",
		RegisteredUnder: "Dotpay registered under numbers:",
		PositiveCount:   "positive notifications:",
		CheckPanel:      "Check the posting for this order in your Dotpay panel - there is a risk that the payer has paid more than 1 time for this order.",
		MessageFor:      "A message for:",
		NotChangedTo:    "The order status has not been changed to",
		PreviouslyPaid:  "because the order has previously been paid for (check previous notes).",
		CurrentStatus:   "So it's current status:",
	},
	"pl": {
		Notification:    "Dotpay wyslal powiadomienie",
		Transaction:     "numer transakcji:",
		Channel:         "kanal platnosci:",
		PaidProcessing:  "oplacone : przetwarzane",
		PaidVirtual:     "oplacone : zrealizowane (produkt wirtualny)",
		Cancelled:       "anulowane",
		Processing:      "przetwarzane",
		DoublePayment:   "PODWOJNA PLATNOSC !",
		ForOrder:        "dla zamowienia nr:",
		RegisteredUnder: "Dotpay zarejestrowal pod numerami:",
		PositiveCount:   "pozytywnych powiadomien:",
		CheckPanel:      "Sprawdz ksiegowanie tego zamowienia w panelu Dotpay - istnieje ryzyko, ze platnik zaplacil wiecej niz 1 raz.",
		MessageFor:      "Wiadomosc dla:",
		NotChangedTo:    "Status zamowienia nie zostal zmieniony na",
		PreviouslyPaid:  "poniewaz zamowienie zostalo wczesniej oplacone (sprawdz poprzednie notatki).",
		CurrentStatus:   "Aktualny status:",
	},
}

// PhrasesFor returns the wording for lang, defaulting to English.
func PhrasesFor(lang string) Phrases {
	if p, ok := phrasesByLang[strings.ToLower(lang)]; ok {
		return p
	}
	return phrasesByLang["en"]
}

// PaidPhrase picks the label written for a completed payment.
func (p Phrases) PaidPhrase(needsProcessing bool) string {
	if needsProcessing {
		return p.PaidProcessing
	}
	return p.PaidVirtual
}

type NoteData struct {
	TransactionNumber string
	ChannelID         string
	ChannelName       string
	ChannelLogo       string
}

func (p Phrases) header(d NoteData) string {
	var b strings.Builder
	fmt.Fprintf(&b, `%s: <br><span style="color: #4b5074; font-style: italic;">%s <span style="font-weight: bold;" id="dptrnr">%s</span>, <br>`,
		p.Notification, p.Transaction, html.EscapeString(d.TransactionNumber))
	fmt.Fprintf(&b, `%s <span style="font-weight: bold;">%s</span> /<span style="font-weight: bold;">%s</span>/</span><br>`,
		p.Channel, html.EscapeString(d.ChannelName), html.EscapeString(d.ChannelID))
	if d.ChannelLogo != "" {
		fmt.Fprintf(&b, `<img src="%s" width="100px" height="50px" alt="%s"> <br>`,
			html.EscapeString(d.ChannelLogo), html.EscapeString(d.ChannelName))
	}
	b.WriteString(`<span style="font-weight: bold;">status</span>: `)
	return b.String()
}

func statusSpan(color, tag, text string) string {
	return fmt.Sprintf(`<span style="color: %s; font-weight: bold;" data-dpstatus="%s" id="dptrst">%s</span>. <br>`, color, tag, text)
}

// PaidNote records a positive notification. It is the note TallyPositive counts.
func (p Phrases) PaidNote(d NoteData, needsProcessing bool) string {
	return p.header(d) + statusSpan("green", TagPaid, p.PaidPhrase(needsProcessing))
}

func (p Phrases) CancelledNote(d NoteData) string {
	return p.header(d) + statusSpan("red", TagCancelled, p.Cancelled)
}

func (p Phrases) PendingNote(d NoteData) string {
	return p.header(d) + statusSpan("orange", TagPending, p.Processing)
}

// SuppressedNote explains why a rejected or pending notification did not
// change an order that was already paid.
func (p Phrases) SuppressedNote(transactionNumber, suppressed string, current string) string {
	return fmt.Sprintf(`<span style="color: #4b5074; font-size:0.9em;">%s <strong>%s</strong><br>%s <span style="color: #db4444; font-weight: bold;">%s</span> %s<br>%s <span style="color: green; font-weight: bold;">%s</span></span>`,
		p.MessageFor, html.EscapeString(transactionNumber),
		p.NotChangedTo, suppressed, p.PreviouslyPaid,
		p.CurrentStatus, current)
}

// EscalationNote lists every transaction confirmed as paid for the order.
func (p Phrases) EscalationNote(orderID int64, t Tally) string {
	var lines strings.Builder
	for _, e := range t.Entries() {
		fmt.Fprintf(&lines, `%s -> <span style="font-size: 0.8em;color: #5a4d4d;">%s</span> %d`+"\n", e.TransactionNumber, p.PositiveCount, e.Count)
	}
	return fmt.Sprintf(`<span style="color: red; font-weight: bold;">%s<br>%s %d: <span style="background-color: yellow; padding: 2px;">%d</span></span><br>%s <br><span style="color: #4b5074; font-weight: bold;">%s<br><hr> %s</span>`,
		p.DoublePayment, p.ForOrder, orderID, len(t),
		p.RegisteredUnder, lines.String(), p.CheckPanel)
}
