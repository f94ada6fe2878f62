package handlers

// Command names, without the leading slash.
const (
	CmdStart        = "start"
	CmdMe           = "me"
	CmdBotInfo      = "botinfo"
	CmdUserInfo     = "userinfo"
	CmdGroupInfo    = "groupinfo"
	CmdChannelInfo  = "channelinfo"
	CmdAdmins       = "admins"
	CmdProfilePhoto = "profilephoto"
	CmdWhoAmI       = "whoami"
	CmdInfo         = "info"
	CmdSetWebhook   = "setwebhook"
	CmdStats        = "stats"
)

// maxListedAdmins caps the admin section of /groupinfo.
const maxListedAdmins = 20
