package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/service"
	"github.com/set-night/influnest/internal/telegram"
)

const (
	campaignsPagePrefix    = "cmp_p_"
	campaignsRefreshPrefix = "cmp_r_"
	historyRowLimit        = 10
)

var statusIcons = map[domain.CampaignStatus]string{
	domain.StatusPending:   "🕓",
	domain.StatusActive:    "🟢",
	domain.StatusCompleted: "✅",
	domain.StatusExpired:   "⌛",
	domain.StatusCancelled: "🚫",
}

const connectPromptText = "🔌 *Connect your wallet*\n\n" +
	"Link a wallet to view and create campaigns:\n" +
	"`/connect 0xYourAddress`"

// normalizeFilter returns the canonical spelling of a status filter, or
// FilterAll when s is not one.
func normalizeFilter(s string) string {
	for _, f := range config.CampaignFilters {
		if strings.EqualFold(f, s) {
			return f
		}
	}
	return service.FilterAll
}

func campaignsPageData(filter string, page int) string {
	return fmt.Sprintf("%s%s_%d", campaignsPagePrefix, filter, page)
}

func campaignsRefreshData(filter string) string {
	return campaignsRefreshPrefix + filter
}

// parseCampaignsData decodes cmp_p_<filter>_<page> and cmp_r_<filter>.
func parseCampaignsData(data string) (filter string, page int, refresh bool, ok bool) {
	switch {
	case strings.HasPrefix(data, campaignsRefreshPrefix):
		return normalizeFilter(strings.TrimPrefix(data, campaignsRefreshPrefix)), 0, true, true
	case strings.HasPrefix(data, campaignsPagePrefix):
		rest := strings.TrimPrefix(data, campaignsPagePrefix)
		name, pageStr, found := strings.Cut(rest, "_")
		if !found {
			return "", 0, false, false
		}
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 0 {
			return "", 0, false, false
		}
		return normalizeFilter(name), p, false, true
	default:
		return "", 0, false, false
	}
}

func renderCampaign(c domain.Campaign) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s* · %s\n", statusIcons[c.Status], c.Title, c.Status)
	fmt.Fprintf(&sb, "Brand: `%s`  Creator: `%s`\n", c.Brand, c.Creator)
	fmt.Fprintf(&sb, "Budget: %s ETH (paid %s ETH)\n", c.TotalValue, c.PaidAmount)
	fmt.Fprintf(&sb, "Likes: %s/%s  Views: %s/%s\n", c.CurrentLikes, c.TargetLikes, c.CurrentViews, c.TargetViews)
	fmt.Fprintf(&sb, "%s %d%%", telegram.ProgressBar(c.Progress, 10), c.Progress)
	if c.EndDate != "" {
		fmt.Fprintf(&sb, "  Ends: %s", c.EndDate)
	}
	return sb.String()
}

// renderCampaignPage renders one page of the synchronizer snapshot under
// filter, along with the filter, paging and refresh keyboard.
func renderCampaignPage(snap service.SyncSnapshot, filter string, page int) (string, *models.InlineKeyboardMarkup) {
	filter = normalizeFilter(filter)
	refreshRow := telegram.ButtonRow(telegram.InlineButton("🔄 Refresh", campaignsRefreshData(filter)))

	switch snap.State {
	case service.SyncIdle:
		return "⚠️ Campaign count is not available yet.",
			telegram.SingleButton(telegram.InlineButton("🔁 Try Again", campaignsRefreshData(filter)))
	case service.SyncLoading:
		return "⏳ Loading campaigns...", nil
	case service.SyncError:
		return "❌ " + snap.Error,
			telegram.SingleButton(telegram.InlineButton("🔁 Try Again", campaignsRefreshData(filter)))
	}

	filtered := service.FilterCampaigns(snap.Campaigns, filter)

	rows := filterRows(filter)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Campaigns* · %s (%d)\n\n", filter, len(filtered))

	if len(filtered) == 0 {
		sb.WriteString("No campaigns found.")
		rows = append(rows, refreshRow)
		return sb.String(), telegram.InlineKeyboard(rows...)
	}

	totalPages := (len(filtered) + config.CampaignsPerPage - 1) / config.CampaignsPerPage
	page = max(0, min(page, totalPages-1))

	start := page * config.CampaignsPerPage
	end := min(start+config.CampaignsPerPage, len(filtered))

	for i, c := range filtered[start:end] {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderCampaign(c))
	}

	if totalPages > 1 {
		rows = append(rows, telegram.PaginationRow(page, totalPages, campaignsPagePrefix+filter+"_"))
	}
	rows = append(rows, refreshRow)
	return sb.String(), telegram.InlineKeyboard(rows...)
}

func filterRows(current string) [][]models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(config.CampaignFilters))
	for _, f := range config.CampaignFilters {
		label := f
		if f == current {
			label = "• " + f
		}
		buttons = append(buttons, telegram.InlineButton(label, campaignsPageData(f, 0)))
	}
	return telegram.ChunkButtons(buttons, 3)
}

// renderWriterStatus renders the progress message of a create call.
func renderWriterStatus(res service.CreateResult, cfg *config.Config) (string, *models.InlineKeyboardMarkup) {
	var kb *models.InlineKeyboardMarkup
	if res.TxHash != (common.Hash{}) {
		kb = telegram.ExplorerKeyboard("View transaction", cfg.TxURL(res.TxHash.Hex()))
	}

	switch res.State {
	case service.WriterIdle, service.WriterValidating:
		return "⏳ Validating campaign...", kb
	case service.WriterSubmitting:
		return "✍️ Waiting for your signature...", kb
	case service.WriterConfirming:
		return fmt.Sprintf("⛓ Transaction submitted, waiting for confirmation...\n\n`%s`", res.TxHash.Hex()), kb
	case service.WriterSettled:
		text := "✅ *Campaign created!*"
		if res.CampaignID != nil {
			text += fmt.Sprintf("\n\nCampaign #%s", res.CampaignID.String())
		}
		return text, kb
	case service.WriterCancelled:
		return "🚫 Transaction was cancelled.", kb
	default:
		return "❌ " + describeCreateError(res.Err), kb
	}
}

func describeCreateError(err error) string {
	switch {
	case err == nil:
		return "Campaign creation failed."
	case errors.Is(err, domain.ErrWalletNotConnected):
		return "Wallet not connected. Use /connect first."
	case errors.Is(err, domain.ErrSignerMismatch):
		return "The connected wallet is not the signing account."
	case errors.Is(err, domain.ErrInvalidTotalValue):
		return "Total value must be a positive number of ETH."
	case errors.Is(err, domain.ErrInvalidDuration):
		return "Duration must be a whole number of days between 1 and 365."
	case errors.Is(err, domain.ErrInvalidTargetLikes):
		return "Target likes must be a positive whole number."
	case errors.Is(err, domain.ErrInvalidTargetViews):
		return "Target views must be a positive whole number."
	case errors.Is(err, domain.ErrTransactionReverted):
		return "Transaction reverted on-chain."
	default:
		return "Transaction failed: " + err.Error()
	}
}

// describeCreateTx is the signature prompt shown before a createCampaign
// transaction is signed.
func describeCreateTx(tx *types.Transaction, req domain.CreateCampaignRequest, cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString("✍️ *Signature request*\n\n")
	sb.WriteString("Create campaign\n")
	fmt.Fprintf(&sb, "Value: %s ETH\n", service.FormatMoney(tx.Value()))
	fmt.Fprintf(&sb, "Duration: %s days\n", req.DurationDays)
	fmt.Fprintf(&sb, "Targets: %s likes, %s views\n", req.TargetLikes, req.TargetViews)
	if to := tx.To(); to != nil {
		fmt.Fprintf(&sb, "Contract: `%s`\n", to.Hex())
	}
	fmt.Fprintf(&sb, "Gas limit: %d\n", tx.Gas())
	fmt.Fprintf(&sb, "Network: %s (%d)", cfg.NetworkName, cfg.ChainID)
	return sb.String()
}

func renderBalance(address common.Address, bal *service.Balance, cfg *config.Config) string {
	return fmt.Sprintf("💰 *Balance*\n\n`%s`\n\n*%s ETH* (≈ $%s)\nNetwork: %s",
		address.Hex(), bal.Formatted, bal.USD.StringFixed(2), cfg.NetworkName)
}

var historyIcons = map[string]string{
	"star":        "⭐",
	"plus":        "➕",
	"arrow-right": "➡️",
}

func renderHistory(h domain.History) string {
	var sb strings.Builder
	sb.WriteString("🧾 *Transactions*\n")

	if h.Fallback {
		fmt.Fprintf(&sb, "\n⚠️ %s. Showing sample data, not your real history.\n", telegram.EscapeMarkdown(h.Error))
	}

	if len(h.Transactions) == 0 {
		sb.WriteString("\nNo transactions yet.")
		return sb.String()
	}

	for i, tx := range h.Transactions {
		if i == historyRowLimit {
			fmt.Fprintf(&sb, "\n…and %d more", len(h.Transactions)-historyRowLimit)
			break
		}
		icon := historyIcons[tx.Icon]
		if icon == "" {
			icon = "•"
		}
		counterpart := tx.From
		if tx.Type == domain.TxOutgoing {
			counterpart = tx.To
		}
		fmt.Fprintf(&sb, "\n%s %s ETH · %s · %s", icon,
			telegram.EscapeMarkdown(tx.Amount),
			telegram.EscapeMarkdown(tx.Date),
			telegram.InlineCode(service.FormatAddress(counterpart)))
	}
	return sb.String()
}

func renderStart(user *domain.User, cfg *config.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Hi, *%s*!\n\n", telegram.EscapeMarkdown(user.FirstName))
	sb.WriteString("I track influencer campaigns escrowed on-chain.\n\n")
	sb.WriteString("📋 *Commands:*\n" +
		"/connect `<address>` — Link your wallet\n" +
		"/disconnect — Unlink your wallet\n" +
		"/balance — Wallet balance\n" +
		"/campaigns — Browse campaigns\n" +
		"/create `<ETH> <days> <likes> <views>` — Fund a new campaign\n" +
		"/transactions — Transaction history\n\n")
	fmt.Fprintf(&sb, "🌐 Network: %s (chain %d)\n", cfg.NetworkName, cfg.ChainID)
	fmt.Fprintf(&sb, "📄 Contract: `%s`\n", cfg.CampaignManagerAddress)
	if user.HasWallet() {
		fmt.Fprintf(&sb, "👛 Wallet: `%s`", *user.WalletAddress)
	} else {
		sb.WriteString("👛 Wallet: not connected")
	}
	return sb.String()
}
