package offer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
)

const callbackPrefix = "offer"

// Callback encodes the button payload for action on o. It carries the status
// the offer had when the button was rendered, so a stale button press turns
// into a state conflict instead of acting on a newer state.
func Callback(a Action, o *Offer) string {
	return fmt.Sprintf("%s:%s:%s:%s", callbackPrefix, a, o.ID, o.Status)
}

// ParseCallback decodes a payload produced by Callback.
func ParseCallback(data string) (Action, uuid.UUID, Status, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != callbackPrefix {
		return "", uuid.Nil, "", fmt.Errorf("%w: malformed callback %q", apperr.ErrValidation, data)
	}

	a, err := ParseAction(parts[1])
	if err != nil {
		return "", uuid.Nil, "", err
	}

	id, err := uuid.Parse(parts[2])
	if err != nil {
		return "", uuid.Nil, "", fmt.Errorf("%w: malformed offer id: %v", apperr.ErrValidation, err)
	}

	s := Status(parts[3])
	if !s.Valid() {
		return "", uuid.Nil, "", fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, parts[3])
	}

	return a, id, s, nil
}

// Input is the value a chat client has to collect before it can submit an
// action. Field is the transition request field that carries it.
type Input struct {
	Field  string
	Prompt string
}

var inputs = map[Action]Input{
	ActionReject:         {Field: "reason", Prompt: "Perché rifiuti la richiesta?"},
	ActionBuyerCancel:    {Field: "reason", Prompt: "Perché annulli la ricarica?"},
	ActionReportIssue:    {Field: "reason", Prompt: "Descrivi il problema con la ricarica."},
	ActionDeclareKwh:     {Field: "kwh", Prompt: "Quanti kWh hai caricato?"},
	ActionSubmitPhoto:    {Field: "photo", Prompt: "Invia la foto del display della colonnina."},
	ActionDisputeKwh:     {Field: "reason", Prompt: "Perché contesti i kWh dichiarati?"},
	ActionSetPrice:       {Field: "unit_price", Prompt: "Qual è il prezzo al kWh?"},
	ActionMarkPaid:       {Field: "payment_method", Prompt: "Con quale metodo hai pagato?"},
	ActionDisputePayment: {Field: "reason", Prompt: "Cosa non torna nel pagamento?"},
}

// InputFor reports the value action a needs beyond the button press. Actions
// that run on the press alone return false.
func InputFor(a Action) (Input, bool) {
	in, ok := inputs[a]
	return in, ok
}

// FeedbackCallback encodes a rating button for the given offer.
func FeedbackCallback(o *Offer, positive bool) string {
	v := 0
	if positive {
		v = 1
	}

	return fmt.Sprintf("feedback:%s:%d", o.ID, v)
}

// notice is one message produced by a transition.
type notice struct {
	to   int64
	text string
	kb   notify.Keyboard
}

var printer = message.NewPrinter(language.Italian)

func formatKwh(d decimal.Decimal) string {
	return printer.Sprintf("%.2f kWh", d.InexactFloat64())
}

func formatMoney(d decimal.Decimal) string {
	return printer.Sprintf("%.2f €", d.InexactFloat64())
}

func formatSchedule(o *Offer) string {
	return o.ScheduledAt.Format("02/01/2006 15:04")
}

func button(text string, a Action, o *Offer) notify.Button {
	return notify.Button{Text: text, Data: Callback(a, o)}
}

func createdNotices(o *Offer) []notice {
	text := fmt.Sprintf("🔌 Nuova richiesta di ricarica\n\nData: %s\nLuogo: %s\nColonnina: %s",
		formatSchedule(o), o.Location, o.Brand)
	if o.AdditionalInfo != "" {
		text += "\nNote: " + o.AdditionalInfo
	}

	return []notice{{
		to:   o.SellerID,
		text: text,
		kb: notify.Keyboard{{
			button("✅ Accetta", ActionAccept, o),
			button("❌ Rifiuta", ActionReject, o),
		}},
	}}
}

// transitionNotices builds the messages for a committed transition. o is the
// offer after the transition.
func transitionNotices(a Action, o *Offer, p Payload, adminID int64) []notice {
	reason := strings.TrimSpace(p.Reason)

	switch a {
	case ActionAccept:
		return []notice{{
			to:   o.BuyerID,
			text: fmt.Sprintf("✅ La tua richiesta per il %s è stata accettata.", formatSchedule(o)),
			kb: notify.Keyboard{{
				button("🚗 Sono arrivato", ActionBuyerReady, o),
				button("Annulla", ActionBuyerCancel, o),
			}},
		}}
	case ActionReject:
		return []notice{{to: o.BuyerID, text: "❌ La tua richiesta è stata rifiutata.\nMotivo: " + reason}}
	case ActionBuyerReady:
		return []notice{{
			to:   o.SellerID,
			text: "🚗 L'acquirente è arrivato ed è pronto per la ricarica.",
			kb:   notify.Keyboard{{button("⚡ Avvia ricarica", ActionStartCharging, o)}},
		}}
	case ActionBuyerCancel:
		return []notice{{to: o.SellerID, text: "L'acquirente ha annullato la ricarica.\nMotivo: " + reason}}
	case ActionStartCharging:
		text := "⚡ Il venditore ha avviato la ricarica. Conferma che sta funzionando."
		if o.ChargerConnector != "" {
			text += "\nConnettore: " + o.ChargerConnector
		}

		return []notice{{
			to:   o.BuyerID,
			text: text,
			kb: notify.Keyboard{{
				button("👍 Funziona", ActionConfirmCharging, o),
				button("⚠️ Problema", ActionReportIssue, o),
			}},
		}}
	case ActionConfirmCharging:
		return []notice{
			{to: o.SellerID, text: "🔋 L'acquirente conferma che la ricarica è in corso."},
			{
				to:   o.BuyerID,
				text: "Quando hai finito indica i kWh caricati.",
				kb:   notify.Keyboard{{button("🏁 Ricarica terminata", ActionDeclareKwh, o)}},
			},
		}
	case ActionReportIssue:
		return []notice{{to: o.SellerID, text: "⚠️ L'acquirente segnala un problema con la ricarica:\n" + reason}}
	case ActionDeclareKwh:
		return []notice{{
			to:   o.SellerID,
			text: fmt.Sprintf("L'acquirente dichiara %s. In attesa della foto del display.", formatKwh(o.KwhCharged.Decimal)),
		}}
	case ActionSubmitPhoto:
		return []notice{{
			to:   o.SellerID,
			text: fmt.Sprintf("📷 Foto ricevuta. kWh dichiarati: %s", formatKwh(o.KwhCharged.Decimal)),
			kb: notify.Keyboard{{
				button("✅ Confermo", ActionConfirmKwh, o),
				button("❌ Contesto", ActionDisputeKwh, o),
			}},
		}}
	case ActionConfirmKwh:
		return []notice{
			{to: o.BuyerID, text: "Il venditore ha confermato i kWh. In attesa dell'importo da pagare."},
			{to: o.SellerID, text: "Indica il prezzo per kWh per calcolare l'importo."},
		}
	case ActionDisputeKwh:
		return []notice{{to: o.BuyerID, text: "❌ Il venditore contesta i kWh dichiarati:\n" + reason}}
	case ActionSetPrice:
		return []notice{{
			to: o.BuyerID,
			text: fmt.Sprintf("💶 Importo da pagare: %s\n(%s × %s/kWh)",
				formatMoney(o.TotalAmount.Decimal), formatKwh(o.KwhCharged.Decimal), formatMoney(o.UnitPrice.Decimal)),
			kb: notify.Keyboard{{button("💸 Ho pagato", ActionMarkPaid, o)}},
		}}
	case ActionMarkPaid:
		return []notice{{
			to:   o.SellerID,
			text: fmt.Sprintf("💸 L'acquirente ha pagato %s tramite %s.", formatMoney(o.TotalAmount.Decimal), o.PaymentMethod),
			kb: notify.Keyboard{{
				button("✅ Ricevuto", ActionConfirmPayment, o),
				button("❌ Non ricevuto", ActionDisputePayment, o),
			}},
		}}
	case ActionConfirmPayment:
		rate := notify.Keyboard{{
			{Text: "👍", Data: FeedbackCallback(o, true)},
			{Text: "👎", Data: FeedbackCallback(o, false)},
		}}

		return []notice{
			{to: o.BuyerID, text: "🎉 Pagamento confermato, transazione completata. Come è andata con il venditore?", kb: rate},
			{to: o.SellerID, text: "🎉 Transazione completata. Come è andata con l'acquirente?", kb: rate},
		}
	case ActionDisputePayment:
		out := []notice{{to: o.BuyerID, text: "⚠️ Il venditore segnala di non aver ricevuto il pagamento:\n" + reason}}
		if adminID != 0 {
			out = append(out, notice{
				to:   adminID,
				text: fmt.Sprintf("⚠️ Contestazione pagamento sull'offerta %s: %s", o.ID, reason),
			})
		}

		return out
	case ActionExpire:
		text := fmt.Sprintf("⌛ L'offerta del %s è scaduta.", formatSchedule(o))

		return []notice{{to: o.BuyerID, text: text}, {to: o.SellerID, text: text}}
	}

	return nil
}
