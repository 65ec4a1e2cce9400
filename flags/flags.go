package flags

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatRAW  = "raw"
)

type Flags struct {
	ElasticURL       string `cli:"connect" cliAlt:"c" usage:"ElasticSearch URL"`
	ElasticUser      string `cli:"user" usage:"ElasticSearch Username"`
	ElasticPass      string `cli:"pass" usage:"ElasticSearch Password"`
	ElasticVerifySSL bool   `cli:"verifySSL" usage:"Verify SSL certificate"`
	ElasticClientCrt string `cli:"clientCrt" usage:"Path to client certificate"`
	ElasticClientKey string `cli:"clientKey" usage:"Path to client certificate key"`
	ClientVersion    int    `cli:"client" usage:"HTTP client generation to use [8|9]"`
	Protocol         int    `cli:"protocol" cliAlt:"p" usage:"Wire protocol generation to speak [2|6]"`
	Indices          string `cli:"index" cliAlt:"i" usage:"Index (or comma separated list of indices)"`
	DocType          string `cli:"type" cliAlt:"t" usage:"Document type, may be empty"`
	RAWQuery         string `cli:"rawquery" cliAlt:"r" usage:"ElasticSearch raw query string"`
	Query            string `cli:"query" cliAlt:"q" usage:"Lucene query same that is used in Kibana search input"`
	StartDate        string `cli:"start" cliAlt:"s" usage:"Start date for included documents"`
	EndDate          string `cli:"end" cliAlt:"e" usage:"End date for included documents"`
	Timefield        string `cli:"timefield" usage:"Field name to use for start and end date query"`
	ScrollSize       int    `cli:"size" usage:"Number of documents per scroll page"`
	KeepAlive        string `cli:"keepalive" usage:"Scroll cursor keep alive duration"`
	Wait             bool   `cli:"wait" usage:"Wait for every delete call to complete"`
	Conflicts        bool   `cli:"conflicts" usage:"Proceed on version conflicts instead of aborting"`
	Refresh          bool   `cli:"refresh" usage:"Refresh indices after every delete call"`
	Slices           bool   `cli:"slices" usage:"Let the server auto-slice delete calls"`
	OutFormat        string `cli:"outformat" cliAlt:"f" usage:"Format of the outcome report [csv|json|raw]"`
	Outfile          string `cli:"outfile" cliAlt:"o" usage:"Path to outcome report file, - for stdout"`
}
