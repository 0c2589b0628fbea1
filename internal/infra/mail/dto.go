package mail

type ProposalSignedEmailData struct {
	SignerName    string
	ProposalTitle string
	Total         string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
