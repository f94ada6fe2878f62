package handlers

import (
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
)

const emptyField = "—"

// fullName joins first and last name, escaped for HTML.
func fullName(first, last string) string {
	return html.EscapeString(strings.TrimSpace(first + " " + last))
}

// usernameOrDash renders "@name" or a dash when the username is empty.
func usernameOrDash(username string) string {
	if username == "" {
		return emptyField
	}
	return "@" + html.EscapeString(username)
}

// orDash escapes s or returns a dash when it is empty.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyField
	}
	return html.EscapeString(s)
}

// chatTitle prefers the chat title and falls back to the first name for private chats.
func chatTitle(chat *telego.ChatFullInfo) string {
	if chat.Title != "" {
		return html.EscapeString(chat.Title)
	}
	return fullName(chat.FirstName, chat.LastName)
}

// adminLine renders one /admins entry: the name, the optional handle and the member status.
func adminLine(member telego.ChatMember) string {
	user := member.MemberUser()
	line := html.EscapeString(user.FirstName)
	if user.Username != "" {
		line += " (@" + html.EscapeString(user.Username) + ")"
	}
	return line + " " + emptyField + " " + member.MemberStatus()
}

// adminSummaryLine renders one entry of the /groupinfo admin section: "@handle (id)".
func adminSummaryLine(member telego.ChatMember) string {
	user := member.MemberUser()
	name := html.EscapeString(user.FirstName)
	if user.Username != "" {
		name = "@" + html.EscapeString(user.Username)
	}
	return fmt.Sprintf("%s (%d)", name, user.ID)
}
