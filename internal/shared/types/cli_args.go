package types

// AuthArgs holds the identity service parameters shared by all subcommands.
type AuthArgs struct {
	AuthURL           string
	Username          string
	Password          string
	TenantName        string
	RegionName        string
	UserDomainName    string
	ProjectDomainName string
	CACert            string
	Insecure          bool
}

// ShowArgs represents the arguments of the show subcommand.
type ShowArgs struct {
	Prefix         string
	Period         string
	ProjectID      string
	LookbackMonths int
	ReportName     string
	ReportType     []string
	Dir            string
	UploadBucket   string
	Trend          bool
}
