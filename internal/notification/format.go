package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/rxtech-lab/argo-smc/internal/session"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// Setup is everything shown in a setup alert.
type Setup struct {
	ID       string
	Symbol   string
	Signal   types.Signal
	HTFTrend types.Trend
	Session  session.Session
}

// Header returns the one-line summary of a decision.
func Header(decision types.Decision) string {
	signal, ok := decision.(types.Signal)
	if !ok {
		return "ℹ️ NO TRADE"
	}

	switch signal.Direction {
	case types.DirectionBuy:
		return fmt.Sprintf("🟢 %s BUY | LONG", signal.SignalStrength)
	case types.DirectionSell:
		return fmt.Sprintf("🔴 %s SELL | SHORT", signal.SignalStrength)
	default:
		return "ℹ️ NO TRADE"
	}
}

// FormatSetupMessage renders the setup alert.
func FormatSetupMessage(setup Setup) Message {
	var b strings.Builder

	b.WriteString("<b>🧠 SMART MONEY SETUP CONFIRMED</b>\n")
	b.WriteString(Header(setup.Signal) + "\n\n")
	fmt.Fprintf(&b, "<b>Pair:</b> %s\n", html.EscapeString(setup.Symbol))
	fmt.Fprintf(&b, "<b>Direction:</b> %s\n\n", setup.Signal.Direction)
	fmt.Fprintf(&b, "<b>📍 Entry:</b> %.4f\n", setup.Signal.EntryPrice)
	fmt.Fprintf(&b, "<b>🛑 Stop Loss:</b> %.4f\n", setup.Signal.StopLoss)
	fmt.Fprintf(&b, "<b>🎯 Take Profit:</b> %.4f\n\n", setup.Signal.TakeProfit)
	b.WriteString("<b>HTF (1H)</b>\n")
	b.WriteString("✔ Liquidity Sweep\n")
	b.WriteString("✔ Wick Rejection\n")
	fmt.Fprintf(&b, "✔ EMA Trend: %s\n\n", setup.HTFTrend)
	b.WriteString("<b>LTF (5m / 15m)</b>\n")
	b.WriteString("✔ MSS / CHoCH\n")
	b.WriteString("✔ FVG Pullback\n")
	b.WriteString("✔ Confirmation Close\n\n")
	fmt.Fprintf(&b, "⚖️ R:R ≥ 1:%g\n", setup.Signal.RiskFactor)
	b.WriteString("🚫 One trade per setup\n\n")
	fmt.Fprintf(&b, "<b>💼 Session:</b> %s\n", setup.Session)
	fmt.Fprintf(&b, "<b>🆔 Setup ID:</b> %s", html.EscapeString(setup.ID))

	return Message{
		Level: AlertSetup,
		Title: fmt.Sprintf("%s %s", setup.Symbol, setup.Signal.Direction),
		Text:  b.String(),
	}
}

// FormatStartupMessage renders the message sent when the scanner starts.
func FormatStartupMessage(symbols []string) Message {
	return Message{
		Level: AlertInfo,
		Title: "Bot started",
		Text:  fmt.Sprintf("✅ Bot started\nMonitoring: %s", html.EscapeString(strings.Join(symbols, ", "))),
	}
}
