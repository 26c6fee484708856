package station

// request is the closed set of operations the station loop handles.
type request interface {
	isRequest()
}

type statusReply struct {
	status *Status
	err    error
}

type scanReply struct {
	results *ScanResults
	err     error
}

// Reply channels have a capacity of one so the station never blocks on a
// caller that stopped waiting.

type statusRequest struct {
	reply chan<- statusReply
}

type networksRequest struct {
	reply chan<- []NetworkResult
}

type scanRequest struct {
	reply chan<- scanReply
}

type addNetworkRequest struct {
	reply chan<- NetworkID
}

type editKind int

const (
	editSsid editKind = iota
	editPsk
)

func (k editKind) String() string {
	if k == editSsid {
		return "ssid"
	}
	return "psk"
}

type networkEdit struct {
	kind  editKind
	value string
}

type setNetworkRequest struct {
	id   NetworkID
	edit networkEdit
}

type saveConfigRequest struct{}

type removeNetworkRequest struct {
	id NetworkID
}

type selectNetworkRequest struct {
	id    NetworkID
	reply chan<- SelectResult
}

type shutdownRequest struct{}

func (statusRequest) isRequest()        {}
func (networksRequest) isRequest()      {}
func (scanRequest) isRequest()          {}
func (addNetworkRequest) isRequest()    {}
func (setNetworkRequest) isRequest()    {}
func (saveConfigRequest) isRequest()    {}
func (removeNetworkRequest) isRequest() {}
func (selectNetworkRequest) isRequest() {}
func (shutdownRequest) isRequest()      {}
