package menu

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(n int) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, n)
	for i := range out {
		out[i] = &discordgo.MessageEmbed{Title: fmt.Sprintf("Page #%d", i+1)}
	}
	return out
}

func navState(t *testing.T, d Display) map[string]bool {
	t.Helper()
	require.Len(t, d.Components, 1)
	row := d.Components[0].(discordgo.ActionsRow)
	out := make(map[string]bool, len(row.Components))
	for _, c := range row.Components {
		b := c.(discordgo.Button)
		out[b.CustomID] = b.Disabled
	}
	return out
}

func TestPaginatorFirstPage(t *testing.T) {
	p := NewPaginator(pages(3))
	d := p.Page()

	require.Len(t, d.Embeds, 1)
	assert.Equal(t, "Page #1", d.Embeds[0].Title)
	assert.Equal(t, "Page 1 of 3", d.Embeds[0].Footer.Text)
	assert.Equal(t, map[string]bool{
		"first-page": true,
		"prev-page":  true,
		"next-page":  false,
		"last-page":  false,
	}, navState(t, d))
}

func TestPaginatorNavigation(t *testing.T) {
	p := NewPaginator(pages(5))

	assert.Equal(t, "Page 2 of 5", p.ChangePage(PageNext).Embeds[0].Footer.Text)
	d := p.ChangePage(PageLast)
	assert.Equal(t, "Page #5", d.Embeds[0].Title)
	assert.True(t, navState(t, d)["next-page"])
	assert.True(t, navState(t, d)["last-page"])
	assert.False(t, navState(t, d)["prev-page"])

	p.ChangePage(PageNext)
	assert.Equal(t, 4, p.Index(), "next on the last page stays put")

	p.ChangePage(PagePrev)
	assert.Equal(t, 3, p.Index())
	p.ChangePage("bogus")
	assert.Equal(t, 3, p.Index())

	d = p.ChangePage(PageFirst)
	assert.Equal(t, 0, p.Index())
	p.ChangePage(PagePrev)
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, "Page 1 of 5", d.Embeds[0].Footer.Text)
}

func TestPaginatorDoesNotMutatePages(t *testing.T) {
	src := pages(2)
	p := NewPaginator(src)
	p.Page()
	p.ChangePage(PageNext)
	assert.Nil(t, src[0].Footer)
	assert.Nil(t, src[1].Footer)
}

func TestPaginatorSinglePage(t *testing.T) {
	d := NewPaginator(pages(1)).Page()
	for id, disabled := range navState(t, d) {
		assert.True(t, disabled, id)
	}
}

func TestPaginatorEmpty(t *testing.T) {
	p := NewPaginator(nil)
	d := p.ChangePage(PageLast)
	assert.Empty(t, d.Embeds)
	assert.Empty(t, d.Components)
	assert.Equal(t, 0, p.Index())
}

func TestPageAction(t *testing.T) {
	for _, id := range []string{"first-page", "prev-page", "next-page", "last-page"} {
		action, ok := PageAction(id)
		assert.True(t, ok, id)
		assert.Equal(t, id[:len(id)-len("-page")], action)
	}
	for _, id := range []string{"", "page", "up-page", "next", "frame-0-main"} {
		_, ok := PageAction(id)
		assert.False(t, ok, id)
	}
}
