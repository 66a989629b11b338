package models

// Link is one declared direction of a relationship, by citizen_id.
type Link struct {
	CitizenID  CitizenID
	RelativeID CitizenID
}

// Edge is one stored direction of a relationship, by storage id.
type Edge struct {
	CitizenRef  StorageID
	RelativeRef StorageID
}

// RelativesDiff is the minimal change that turns a citizen's current
// relatives into the requested set. Add holds both directions of every new
// relationship; Remove holds the relatives whose edges must be deleted in
// both directions.
type RelativesDiff struct {
	Citizen StorageID
	Add     []Edge
	Remove  []StorageID
}

func (d RelativesDiff) IsEmpty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// IDMap maps citizen_id to storage id and back within one import.
// Lookups report presence explicitly instead of failing.
type IDMap struct {
	byCitizen map[CitizenID]StorageID
	byStorage map[StorageID]CitizenID
}

func NewIDMap(size int) *IDMap {
	return &IDMap{
		byCitizen: make(map[CitizenID]StorageID, size),
		byStorage: make(map[StorageID]CitizenID, size),
	}
}

func (m *IDMap) Put(citizenID CitizenID, storageID StorageID) {
	m.byCitizen[citizenID] = storageID
	m.byStorage[storageID] = citizenID
}

func (m *IDMap) StorageID(citizenID CitizenID) (StorageID, bool) {
	sid, ok := m.byCitizen[citizenID]
	return sid, ok
}

func (m *IDMap) CitizenID(storageID StorageID) (CitizenID, bool) {
	cid, ok := m.byStorage[storageID]
	return cid, ok
}

func (m *IDMap) Len() int {
	return len(m.byCitizen)
}
