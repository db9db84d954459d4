package menu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Navigation actions. Button custom IDs are "<action>-page".
const (
	PageFirst = "first"
	PagePrev  = "prev"
	PageNext  = "next"
	PageLast  = "last"

	pageSuffix = "-page"
)

// PageAction extracts the navigation action from a paginator button ID.
func PageAction(customID string) (string, bool) {
	action, ok := strings.CutSuffix(customID, pageSuffix)
	if !ok {
		return "", false
	}
	switch action {
	case PageFirst, PagePrev, PageNext, PageLast:
		return action, true
	}
	return "", false
}

// Paginator flips through a fixed list of embeds.
type Paginator struct {
	mu    sync.Mutex
	pages []*discordgo.MessageEmbed
	index int
}

func NewPaginator(pages []*discordgo.MessageEmbed) *Paginator {
	return &Paginator{pages: pages}
}

func (p *Paginator) Len() int { return len(p.pages) }

// Index returns the zero-based current page.
func (p *Paginator) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Page renders the current page.
func (p *Paginator) Page() Display {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render()
}

// ChangePage moves by action and renders the result. Unknown actions and
// moves past either end leave the page unchanged.
func (p *Paginator) ChangePage(action string) Display {
	p.mu.Lock()
	defer p.mu.Unlock()

	last := len(p.pages) - 1
	switch action {
	case PageFirst:
		p.index = 0
	case PagePrev:
		if p.index > 0 {
			p.index--
		}
	case PageNext:
		if p.index < last {
			p.index++
		}
	case PageLast:
		p.index = max(last, 0)
	}
	return p.render()
}

func (p *Paginator) render() Display {
	n := len(p.pages)
	if n == 0 {
		return Display{Content: "Nothing to show."}
	}

	page := *p.pages[p.index]
	page.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", p.index+1, n)}

	atStart, atEnd := p.index == 0, p.index == n-1
	return Display{
		Embeds: []*discordgo.MessageEmbed{&page},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				pageButton(PageFirst, "First", atStart),
				pageButton(PagePrev, "Previous", atStart),
				pageButton(PageNext, "Next", atEnd),
				pageButton(PageLast, "Last", atEnd),
			}},
		},
	}
}

func pageButton(action, label string, disabled bool) discordgo.Button {
	return discordgo.Button{
		CustomID: action + pageSuffix,
		Label:    label,
		Style:    discordgo.SecondaryButton,
		Disabled: disabled,
	}
}
